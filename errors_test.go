package goBlog

import (
	"errors"
	"net/http"
	"testing"
)

func TestAPIErrorUnwrapsByOperation(t *testing.T) {
	cases := []struct {
		name string
		err  *APIError
		want error
	}{
		{"login 400", newAPIError("login", http.StatusBadRequest, "x", loginErrorKind(http.StatusBadRequest)), ErrInvalidCredentials},
		{"login 401", newAPIError("login", http.StatusUnauthorized, "x", loginErrorKind(http.StatusUnauthorized)), ErrInvalidCredentials},
		{"login 503", newAPIError("login", http.StatusServiceUnavailable, "x", loginErrorKind(http.StatusServiceUnavailable)), ErrBackendUnavailable},
		{"read 404", newAPIError("get post", http.StatusNotFound, "", readErrorKind(http.StatusNotFound)), ErrPostNotFound},
		{"write 401", newAPIError("create post", http.StatusUnauthorized, "", writeErrorKind(http.StatusUnauthorized)), ErrSessionExpired},
		{"write 403", newAPIError("create post", http.StatusForbidden, "", writeErrorKind(http.StatusForbidden)), ErrPermissionDenied},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.want) {
			t.Fatalf("%s: expected %v", tc.name, tc.want)
		}
	}

	if errors.Is(newAPIError("login", http.StatusTeapot, "", loginErrorKind(http.StatusTeapot)), ErrInvalidCredentials) {
		t.Fatal("418 must not match invalid credentials")
	}
	if writeErrorKind(http.StatusUnauthorized) == ErrInvalidCredentials {
		t.Fatal("a write 401 is an expired session, not bad credentials")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := newAPIError("get post", http.StatusNotFound, "", ErrPostNotFound)
	if got := err.Error(); got != "get post: 404 Not Found" {
		t.Fatalf("unexpected message %q", got)
	}
	err = newAPIError("login", http.StatusUnauthorized, "Invalid credentials", ErrInvalidCredentials)
	if got := err.Error(); got != "login: 401 Invalid credentials" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSessionStateString(t *testing.T) {
	if Anonymous().String() != "anonymous" {
		t.Fatal("unexpected anonymous string")
	}
	if got := Authenticated(User{Username: "alice"}).String(); got != "authenticated(alice)" {
		t.Fatalf("unexpected authenticated string %q", got)
	}
	var zero SessionState
	if zero.IsAuthenticated() {
		t.Fatal("zero state must be anonymous")
	}
}

func TestRoutes(t *testing.T) {
	if PostRoute(7) != "/posts/7" || EditPostRoute(7) != "/edit-post/7" {
		t.Fatalf("unexpected routes %s %s", PostRoute(7), EditPostRoute(7))
	}
}
