package view

import (
	"context"
	"sync"

	goBlog "github.com/MrEthical07/goBlog"
)

type fakeBlog struct {
	mu sync.Mutex

	state   goBlog.SessionState
	release chan struct{}

	posts   []goBlog.Post
	listErr error
	getErr  error
	saveErr error
	delErr  error
	login   goBlog.LoginResult
	loginE  error

	saves    int
	deletes  int
	resolves int
	block    chan struct{}
}

func (f *fakeBlog) ResolveSession(ctx context.Context) goBlog.SessionState {
	f.mu.Lock()
	f.resolves++
	release := f.release
	state := f.state
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return state
}

func (f *fakeBlog) ListPosts(context.Context) ([]goBlog.Post, error) {
	return f.posts, f.listErr
}

func (f *fakeBlog) GetPost(_ context.Context, id int64) (*goBlog.Post, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.posts {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, goBlog.ErrPostNotFound
}

func (f *fakeBlog) SavePost(_ context.Context, id int64, in goBlog.PostInput) (*goBlog.Post, error) {
	f.mu.Lock()
	f.saves++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &goBlog.Post{ID: max(id, 1), Title: in.Title, Content: in.Content, Author: in.Author}, nil
}

func (f *fakeBlog) DeletePost(context.Context, int64) error {
	f.mu.Lock()
	f.deletes++
	f.mu.Unlock()
	return f.delErr
}

func (f *fakeBlog) Login(context.Context, string, string) (goBlog.LoginResult, error) {
	return f.login, f.loginE
}

func (f *fakeBlog) Logout(context.Context) goBlog.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = goBlog.Anonymous()
	return f.state
}

func (f *fakeBlog) Gate(_ context.Context, state goBlog.SessionState, _ goBlog.Action) goBlog.GateDecision {
	if state.IsAuthenticated() {
		return goBlog.GateDecision{Allowed: true}
	}
	return goBlog.GateDecision{Warning: goBlog.GateWarning, Redirect: goBlog.RouteLogin}
}

type recorder struct {
	mu       sync.Mutex
	success  []string
	warnings []string
	errors   []string
	routes   []string
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	r.success = append(r.success, msg)
	r.mu.Unlock()
}

func (r *recorder) Warning(msg string) {
	r.mu.Lock()
	r.warnings = append(r.warnings, msg)
	r.mu.Unlock()
}

func (r *recorder) Error(msg string) { r.mu.Lock(); r.errors = append(r.errors, msg); r.mu.Unlock() }
func (r *recorder) Navigate(route string) {
	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.mu.Unlock()
}

var alice = goBlog.User{Username: "alice", Email: "a@x.com", ID: 7}

func newScreens(blog *fakeBlog) (*Screens, *recorder) {
	rec := &recorder{}
	return &Screens{Blog: blog, Notifier: rec, Nav: rec}, rec
}
