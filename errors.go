package goBlog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goBlog/session"
)

var (
	// ErrLoginRequired is returned by write operations when no access token is stored.
	ErrLoginRequired = errors.New("you must be logged in to create or edit a post")
	// ErrSessionExpired is matched by a 401 response on a write operation.
	ErrSessionExpired = errors.New("session expired")
	// ErrPermissionDenied is matched by a 403 response on a write operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrPostNotFound is matched by a 404 response on a post lookup.
	ErrPostNotFound = errors.New("post not found")
	// ErrPostFieldsRequired is returned when title, content, or author is blank.
	ErrPostFieldsRequired = errors.New("please fill in all fields")
	// ErrInvalidCredentials is matched by a 400 or 401 response on login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialsRequired is returned when username or password is empty.
	ErrCredentialsRequired = errors.New("username and password are required")
	// ErrBackendUnavailable covers transport failures, 5xx responses and
	// undecodable bodies.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrClientNotReady is returned by methods on a nil or closed Client.
	ErrClientNotReady = errors.New("client not ready")
	// ErrStoreUnavailable is re-exported from the session package.
	ErrStoreUnavailable = session.ErrStoreUnavailable
)

// APIError is a non-2xx response from the backend. It unwraps to the
// sentinel matching its status for the operation that produced it, so callers
// branch with errors.Is.
type APIError struct {
	Op         string
	StatusCode int
	Message    string

	kind error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func newAPIError(op string, status int, message string, kind error) *APIError {
	return &APIError{
		Op:         op,
		StatusCode: status,
		Message:    message,
		kind:       kind,
	}
}

func loginErrorKind(status int) error {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case status >= 500:
		return ErrBackendUnavailable
	default:
		return nil
	}
}

func readErrorKind(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrPostNotFound
	case status >= 500:
		return ErrBackendUnavailable
	default:
		return nil
	}
}

func writeErrorKind(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrSessionExpired
	case status == http.StatusForbidden:
		return ErrPermissionDenied
	case status == http.StatusNotFound:
		return ErrPostNotFound
	case status >= 500:
		return ErrBackendUnavailable
	default:
		return nil
	}
}
