package view

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	goBlog "github.com/MrEthical07/goBlog"
	"golang.org/x/sync/errgroup"
)

// Messages shown by the screens.
const (
	MsgPostCreated       = "Post created successfully!"
	MsgPostUpdated       = "Post updated successfully!"
	MsgPostDeleted       = "Post deleted successfully!"
	MsgLoggedOut         = "You have been logged out."
	MsgFieldsRequired    = "Please fill in all fields."
	MsgSessionExpired    = "Session expired. Please log in again."
	MsgPermissionDenied  = "You don't have permission to perform this action."
	MsgLoadPostFailed    = "Failed to load post. Please try again."
	MsgPostNotFound      = "Post not found."
	MsgCredentialsNeeded = "Username and password are required."
)

// ListPage is the home screen.
type ListPage struct {
	Session goBlog.SessionState
	Actions Actions
	Posts   []goBlog.Post
}

// DetailPage shows one post.
type DetailPage struct {
	Session goBlog.SessionState
	Actions Actions
	Post    *goBlog.Post
}

// FormPage is the create/edit form. ID is 0 when creating.
type FormPage struct {
	ID      int64
	Session goBlog.SessionState
	Input   goBlog.PostInput
}

// Editing reports whether the form updates an existing post.
func (p FormPage) Editing() bool { return p.ID != 0 }

// Screens bundles the client with its side-effect sinks.
type Screens struct {
	Blog     Blog
	Notifier Notifier
	Nav      Navigator
}

// activateWith runs fetch and session resolution concurrently. The fetch
// error is returned; the session is whatever resolution produced.
func (s *Screens) activateWith(ctx context.Context, fetch func(ctx context.Context) error) (goBlog.SessionState, error) {
	act := Activate(ctx, s.Blog)
	defer act.Close()

	var (
		g        errgroup.Group
		fetchErr error
	)
	g.Go(func() error {
		fetchErr = fetch(ctx)
		return nil
	})
	g.Go(func() error {
		_, err := act.Wait(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return act.State(), err
	}
	return act.State(), fetchErr
}

// List loads the home screen.
func (s *Screens) List(ctx context.Context) (ListPage, error) {
	var posts []goBlog.Post
	state, err := s.activateWith(ctx, func(ctx context.Context) error {
		var err error
		posts, err = s.Blog.ListPosts(ctx)
		return err
	})
	if posts == nil {
		posts = []goBlog.Post{}
	}
	return ListPage{Session: state, Actions: Affordances(state), Posts: posts}, err
}

// Detail loads one post.
func (s *Screens) Detail(ctx context.Context, id int64) (DetailPage, error) {
	var post *goBlog.Post
	state, err := s.activateWith(ctx, func(ctx context.Context) error {
		var err error
		post, err = s.Blog.GetPost(ctx, id)
		return err
	})
	if errors.Is(err, goBlog.ErrPostNotFound) {
		s.notify().Error(MsgPostNotFound)
	}
	return DetailPage{Session: state, Actions: Affordances(state), Post: post}, err
}

// gate resolves the session and applies the write gate. A blocked gate
// warns and redirects.
func (s *Screens) gate(ctx context.Context, action goBlog.Action) (goBlog.SessionState, bool) {
	act := Activate(ctx, s.Blog)
	defer act.Close()

	state, err := act.Wait(ctx)
	if err != nil {
		return state, false
	}
	decision := s.Blog.Gate(ctx, state, action)
	if !decision.Allowed {
		s.notify().Warning(decision.Warning)
		s.nav().Navigate(decision.Redirect)
		return state, false
	}
	return state, true
}

// OpenForm prepares the create (id 0) or edit form. It reports false when
// the session gate redirected away.
func (s *Screens) OpenForm(ctx context.Context, id int64) (FormPage, bool) {
	action := goBlog.ActionCreate
	if id != 0 {
		action = goBlog.ActionEdit
	}
	state, ok := s.gate(ctx, action)
	if !ok {
		return FormPage{}, false
	}

	page := FormPage{ID: id, Session: state}
	if id == 0 {
		return page, true
	}

	post, err := s.Blog.GetPost(ctx, id)
	if err != nil {
		s.notify().Error(MsgLoadPostFailed)
		return page, true
	}
	page.Input = goBlog.PostInput{Title: post.Title, Content: post.Content, Author: post.Author}
	return page, true
}

// Form submits a create/edit form. A submission while another is in flight
// is ignored.
type Form struct {
	screens    *Screens
	submitting atomic.Bool
}

// NewForm returns a form bound to s.
func (s *Screens) NewForm() *Form {
	return &Form{screens: s}
}

// Submit saves in. It reports whether the post was saved.
func (f *Form) Submit(ctx context.Context, id int64, in goBlog.PostInput) bool {
	if !f.submitting.CompareAndSwap(false, true) {
		return false
	}
	defer f.submitting.Store(false)

	s := f.screens
	verb := "create"
	if id != 0 {
		verb = "update"
	}

	_, err := s.Blog.SavePost(ctx, id, in)
	if err != nil {
		s.writeFailed(err, verb)
		return false
	}

	if id != 0 {
		s.notify().Success(MsgPostUpdated)
	} else {
		s.notify().Success(MsgPostCreated)
	}
	s.nav().Navigate(goBlog.RouteHome)
	return true
}

// Delete removes post id after the gate allows it.
func (s *Screens) Delete(ctx context.Context, id int64) bool {
	if _, ok := s.gate(ctx, goBlog.ActionDelete); !ok {
		return false
	}
	if err := s.Blog.DeletePost(ctx, id); err != nil {
		s.writeFailed(err, "delete")
		return false
	}
	s.notify().Success(MsgPostDeleted)
	s.nav().Navigate(goBlog.RouteHome)
	return true
}

func (s *Screens) writeFailed(err error, verb string) {
	n := s.notify()
	switch {
	case errors.Is(err, goBlog.ErrPostFieldsRequired):
		n.Error(MsgFieldsRequired)
	case errors.Is(err, goBlog.ErrLoginRequired):
		n.Error(goBlog.GateWarning)
		s.nav().Navigate(goBlog.RouteLogin)
	case errors.Is(err, goBlog.ErrSessionExpired):
		n.Error(MsgSessionExpired)
		s.nav().Navigate(goBlog.RouteLogin)
	case errors.Is(err, goBlog.ErrPermissionDenied):
		n.Error(MsgPermissionDenied)
	case errors.Is(err, goBlog.ErrPostNotFound):
		n.Error(MsgPostNotFound)
	default:
		n.Error(writeFailureMessage(err, verb))
	}
}

func writeFailureMessage(err error, verb string) string {
	fallback := fmt.Sprintf("Failed to %s post. Please try again.", verb)
	var apiErr *goBlog.APIError
	if !errors.As(err, &apiErr) || apiErr.Message == "" || apiErr.Message == "failed to "+verb+" post" {
		return fallback
	}
	return apiErr.Message
}

// Login submits credentials. It reports whether the user is now logged in.
func (s *Screens) Login(ctx context.Context, username, password string) bool {
	res, err := s.Blog.Login(ctx, username, password)
	if err != nil {
		s.notify().Error(loginFailureMessage(err))
		return false
	}
	s.notify().Success(res.Message)
	s.nav().Navigate(goBlog.RouteHome)
	return true
}

func loginFailureMessage(err error) string {
	if errors.Is(err, goBlog.ErrCredentialsRequired) {
		return MsgCredentialsNeeded
	}
	var apiErr *goBlog.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err.Error() != "" {
		return err.Error()
	}
	return goBlog.DefaultLoginError
}

// Logout clears the session and returns home.
func (s *Screens) Logout(ctx context.Context) goBlog.SessionState {
	state := s.Blog.Logout(ctx)
	s.notify().Success(MsgLoggedOut)
	s.nav().Navigate(goBlog.RouteHome)
	return state
}

func (s *Screens) notify() Notifier {
	if s.Notifier == nil {
		return discard{}
	}
	return s.Notifier
}

func (s *Screens) nav() Navigator {
	if s.Nav == nil {
		return discard{}
	}
	return s.Nav
}

type discard struct{}

func (discard) Success(string)  {}
func (discard) Warning(string)  {}
func (discard) Error(string)    {}
func (discard) Navigate(string) {}
