package view

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLoadsPostsAndSession(t *testing.T) {
	blog := &fakeBlog{
		state: goBlog.Authenticated(alice),
		posts: []goBlog.Post{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}},
	}
	s, _ := newScreens(blog)

	page, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	assert.True(t, page.Session.IsAuthenticated())
	assert.Equal(t, Visible, page.Actions.Create)
}

func TestListFetchFailureKeepsSession(t *testing.T) {
	blog := &fakeBlog{state: goBlog.Authenticated(alice), listErr: goBlog.ErrBackendUnavailable}
	s, _ := newScreens(blog)

	page, err := s.List(context.Background())
	assert.ErrorIs(t, err, goBlog.ErrBackendUnavailable)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.True(t, page.Session.IsAuthenticated())
}

func TestDetailNotFound(t *testing.T) {
	s, rec := newScreens(&fakeBlog{})

	page, err := s.Detail(context.Background(), 9)
	assert.ErrorIs(t, err, goBlog.ErrPostNotFound)
	assert.Nil(t, page.Post)
	assert.Equal(t, []string{MsgPostNotFound}, rec.errors)
}

func TestOpenFormAnonymousRedirects(t *testing.T) {
	s, rec := newScreens(&fakeBlog{})

	_, ok := s.OpenForm(context.Background(), 0)
	assert.False(t, ok)
	assert.Equal(t, []string{goBlog.GateWarning}, rec.warnings)
	assert.Equal(t, []string{goBlog.RouteLogin}, rec.routes)
}

func TestOpenFormPrefillsForEdit(t *testing.T) {
	blog := &fakeBlog{
		state: goBlog.Authenticated(alice),
		posts: []goBlog.Post{{ID: 3, Title: "t", Content: "c", Author: "a"}},
	}
	s, rec := newScreens(blog)

	page, ok := s.OpenForm(context.Background(), 3)
	require.True(t, ok)
	assert.True(t, page.Editing())
	assert.Equal(t, goBlog.PostInput{Title: "t", Content: "c", Author: "a"}, page.Input)
	assert.Empty(t, rec.errors)
}

func TestOpenFormLoadFailureClearsFields(t *testing.T) {
	blog := &fakeBlog{state: goBlog.Authenticated(alice), getErr: goBlog.ErrBackendUnavailable}
	s, rec := newScreens(blog)

	page, ok := s.OpenForm(context.Background(), 3)
	require.True(t, ok)
	assert.Equal(t, goBlog.PostInput{}, page.Input)
	assert.Equal(t, []string{MsgLoadPostFailed}, rec.errors)
}

func TestSubmitOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		id      int64
		err     error
		success []string
		errors  []string
		routes  []string
	}{
		{name: "created", success: []string{MsgPostCreated}, routes: []string{goBlog.RouteHome}},
		{name: "updated", id: 4, success: []string{MsgPostUpdated}, routes: []string{goBlog.RouteHome}},
		{name: "fields", err: goBlog.ErrPostFieldsRequired, errors: []string{MsgFieldsRequired}},
		{name: "no token", err: goBlog.ErrLoginRequired, errors: []string{goBlog.GateWarning}, routes: []string{goBlog.RouteLogin}},
		{name: "forbidden", err: goBlog.ErrPermissionDenied, errors: []string{MsgPermissionDenied}},
		{name: "backend message", id: 4, err: &goBlog.APIError{StatusCode: 500, Message: "db down"}, errors: []string{"db down"}},
		{name: "default message", id: 4, err: &goBlog.APIError{StatusCode: 500, Message: "failed to update post"}, errors: []string{"Failed to update post. Please try again."}},
		{name: "transport", err: errors.New("dial tcp"), errors: []string{"Failed to create post. Please try again."}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blog := &fakeBlog{state: goBlog.Authenticated(alice), saveErr: tc.err}
			s, rec := newScreens(blog)

			ok := s.NewForm().Submit(context.Background(), tc.id, goBlog.PostInput{Title: "t", Content: "c", Author: "a"})
			assert.Equal(t, tc.err == nil, ok)
			assert.Equal(t, tc.success, rec.success)
			assert.Equal(t, tc.errors, rec.errors)
			assert.Equal(t, tc.routes, rec.routes)
		})
	}
}

func TestSubmitSessionExpiredRedirects(t *testing.T) {
	blog := &fakeBlog{state: goBlog.Authenticated(alice), saveErr: goBlog.ErrSessionExpired}
	s, rec := newScreens(blog)

	assert.False(t, s.NewForm().Submit(context.Background(), 1, goBlog.PostInput{Title: "t", Content: "c", Author: "a"}))
	assert.Equal(t, []string{MsgSessionExpired}, rec.errors)
	assert.Equal(t, []string{goBlog.RouteLogin}, rec.routes)
}

func TestSubmitIgnoresDoubleSubmission(t *testing.T) {
	blog := &fakeBlog{state: goBlog.Authenticated(alice), block: make(chan struct{})}
	s, _ := newScreens(blog)
	form := s.NewForm()
	in := goBlog.PostInput{Title: "t", Content: "c", Author: "a"}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		form.Submit(context.Background(), 0, in)
	}()

	require.Eventually(t, func() bool {
		blog.mu.Lock()
		defer blog.mu.Unlock()
		return blog.saves == 1
	}, time.Second, time.Millisecond)

	assert.False(t, form.Submit(context.Background(), 0, in))
	close(blog.block)
	wg.Wait()
	assert.Equal(t, 1, blog.saves)
}

func TestDeleteGatedForAnonymous(t *testing.T) {
	blog := &fakeBlog{}
	s, rec := newScreens(blog)

	assert.False(t, s.Delete(context.Background(), 1))
	assert.Zero(t, blog.deletes)
	assert.Equal(t, []string{goBlog.RouteLogin}, rec.routes)
}

func TestDeleteSuccess(t *testing.T) {
	blog := &fakeBlog{state: goBlog.Authenticated(alice)}
	s, rec := newScreens(blog)

	assert.True(t, s.Delete(context.Background(), 1))
	assert.Equal(t, []string{MsgPostDeleted}, rec.success)
	assert.Equal(t, []string{goBlog.RouteHome}, rec.routes)
}

func TestLoginScreen(t *testing.T) {
	blog := &fakeBlog{login: goBlog.LoginResult{Message: "Login successful!"}}
	s, rec := newScreens(blog)

	assert.True(t, s.Login(context.Background(), "alice", "pw"))
	assert.Equal(t, []string{"Login successful!"}, rec.success)
	assert.Equal(t, []string{goBlog.RouteHome}, rec.routes)

	blog.loginE = &goBlog.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	assert.False(t, s.Login(context.Background(), "alice", "bad"))
	assert.Equal(t, []string{"Invalid credentials"}, rec.errors)

	blog.loginE = goBlog.ErrCredentialsRequired
	assert.False(t, s.Login(context.Background(), "", ""))
	assert.Equal(t, MsgCredentialsNeeded, rec.errors[1])
}

func TestLogoutScreen(t *testing.T) {
	blog := &fakeBlog{state: goBlog.Authenticated(alice)}
	s, rec := newScreens(blog)

	state := s.Logout(context.Background())
	assert.False(t, state.IsAuthenticated())
	assert.Equal(t, []string{MsgLoggedOut}, rec.success)
}

func TestScreensWithoutSinks(t *testing.T) {
	s := &Screens{Blog: &fakeBlog{}}
	assert.NotPanics(t, func() {
		s.OpenForm(context.Background(), 0)
	})
}
