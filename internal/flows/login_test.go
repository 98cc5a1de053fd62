package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goBlog/session"
)

var (
	errCredsRequired = errors.New("creds required")
	errBackend       = errors.New("backend")
	errStore         = errors.New("store")
	errLoginRequired = errors.New("login required")
)

func loginDeps(store TokenWriter, post func(context.Context, string, string) (LoginResponse, error)) LoginDeps {
	return LoginDeps{
		Store:          store,
		PostLogin:      post,
		DefaultMessage: "Login successful!",
		Errors: LoginErrors{
			CredentialsRequired: errCredsRequired,
			BackendUnavailable:  errBackend,
			StoreUnavailable:    errStore,
		},
	}
}

func TestLoginEmptyCredentialsMakesNoCall(t *testing.T) {
	called := false
	post := func(context.Context, string, string) (LoginResponse, error) {
		called = true
		return LoginResponse{}, nil
	}
	store := newRecordingStore()

	for _, tc := range [][2]string{{"", "pw"}, {"  ", "pw"}, {"alice", ""}} {
		_, err := RunLogin(context.Background(), tc[0], tc[1], loginDeps(store, post))
		if !errors.Is(err, errCredsRequired) {
			t.Fatalf("%q/%q: expected credentials error, got %v", tc[0], tc[1], err)
		}
	}
	if called {
		t.Fatal("expected no login request")
	}
}

func TestLoginStoresBothTokens(t *testing.T) {
	store := newRecordingStore()
	post := func(_ context.Context, username, password string) (LoginResponse, error) {
		if username != "alice" || password != "pw" {
			t.Fatalf("unexpected credentials %q/%q", username, password)
		}
		return LoginResponse{AccessToken: "a1", RefreshToken: "r1"}, nil
	}

	resp, err := RunLogin(context.Background(), " alice ", "pw", loginDeps(store, post))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Message != "Login successful!" {
		t.Fatalf("expected default message, got %q", resp.Message)
	}
	ctx := context.Background()
	if v, _, _ := store.Get(ctx, session.AccessTokenKey); v != "a1" {
		t.Fatalf("expected access token a1, got %q", v)
	}
	if v, _, _ := store.Get(ctx, session.RefreshTokenKey); v != "r1" {
		t.Fatalf("expected refresh token r1, got %q", v)
	}
}

func TestLoginWithoutRefreshTokenStoresOnlyAccess(t *testing.T) {
	store := newRecordingStore()
	post := func(context.Context, string, string) (LoginResponse, error) {
		return LoginResponse{AccessToken: "a1", Message: "welcome"}, nil
	}

	resp, err := RunLogin(context.Background(), "alice", "pw", loginDeps(store, post))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Message != "welcome" {
		t.Fatalf("expected backend message, got %q", resp.Message)
	}
	if store.sets != 1 {
		t.Fatalf("expected one write, got %d", store.sets)
	}
}

func TestLoginFailureLeavesStoreUntouched(t *testing.T) {
	store := newRecordingStore()
	post := func(context.Context, string, string) (LoginResponse, error) {
		return LoginResponse{}, errBoom
	}

	if _, err := RunLogin(context.Background(), "alice", "pw", loginDeps(store, post)); !errors.Is(err, errBoom) {
		t.Fatalf("expected backend error passthrough, got %v", err)
	}
	if store.sets != 0 {
		t.Fatal("expected no writes on failure")
	}
}

func TestLoginMissingAccessTokenIsBackendError(t *testing.T) {
	store := newRecordingStore()
	post := func(context.Context, string, string) (LoginResponse, error) {
		return LoginResponse{Message: "ok"}, nil
	}

	if _, err := RunLogin(context.Background(), "alice", "pw", loginDeps(store, post)); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestPostWriteRequiresToken(t *testing.T) {
	store := newRecordingStore()
	deps := PostWriteDeps{Store: store, Errors: PostWriteErrors{LoginRequired: errLoginRequired, StoreUnavailable: errStore}}

	sent := false
	err := RunPostWrite(context.Background(), deps, func(context.Context, string) error {
		sent = true
		return nil
	})
	if !errors.Is(err, errLoginRequired) || sent {
		t.Fatalf("expected login required without send, got %v sent=%v", err, sent)
	}
}

func TestPostWriteNeverPurges(t *testing.T) {
	store := newRecordingStore()
	store.seed(t, "a1", "r1")
	deps := PostWriteDeps{Store: store, Errors: PostWriteErrors{LoginRequired: errLoginRequired, StoreUnavailable: errStore}}

	var gotToken string
	err := RunPostWrite(context.Background(), deps, func(_ context.Context, accessToken string) error {
		gotToken = accessToken
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected send error, got %v", err)
	}
	if gotToken != "a1" {
		t.Fatalf("expected stored token, got %q", gotToken)
	}
	if len(store.removed) != 0 || store.count(t) != 2 {
		t.Fatal("write path must not touch the session")
	}
}

func TestPostWriteStoreFailure(t *testing.T) {
	store := newRecordingStore()
	store.getErr = errBoom
	deps := PostWriteDeps{Store: store, Errors: PostWriteErrors{LoginRequired: errLoginRequired, StoreUnavailable: errStore}}

	err := RunPostWrite(context.Background(), deps, func(context.Context, string) error { return nil })
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
