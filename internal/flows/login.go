package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrEthical07/goBlog/session"
)

// LoginResponse is the decoded 2xx body of the login call.
type LoginResponse struct {
	AccessToken  string
	RefreshToken string
	Message      string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	CredentialsRequired error
	BackendUnavailable  error
	StoreUnavailable    error
}

// TokenWriter is the write half of the session store.
type TokenWriter interface {
	Set(ctx context.Context, key, value string) error
}

// LoginDeps captures login dependencies.
type LoginDeps struct {
	Store          TokenWriter
	PostLogin      func(ctx context.Context, username, password string) (LoginResponse, error)
	DefaultMessage string
	Errors         LoginErrors
}

// RunLogin validates credentials locally, calls the login endpoint and stores
// the returned tokens. Errors from PostLogin are returned unchanged.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) (LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResponse{}, deps.Errors.CredentialsRequired
	}

	resp, err := deps.PostLogin(ctx, username, password)
	if err != nil {
		return LoginResponse{}, err
	}
	if resp.AccessToken == "" {
		return LoginResponse{}, fmt.Errorf("%w: login response missing accessToken", deps.Errors.BackendUnavailable)
	}

	if err := deps.Store.Set(ctx, session.AccessTokenKey, resp.AccessToken); err != nil {
		return LoginResponse{}, fmt.Errorf("%w: %v", deps.Errors.StoreUnavailable, err)
	}
	if resp.RefreshToken != "" {
		if err := deps.Store.Set(ctx, session.RefreshTokenKey, resp.RefreshToken); err != nil {
			return LoginResponse{}, fmt.Errorf("%w: %v", deps.Errors.StoreUnavailable, err)
		}
	}

	if resp.Message == "" {
		resp.Message = deps.DefaultMessage
	}
	return resp, nil
}
