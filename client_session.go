package goBlog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/goBlog/internal/flows"
	internalmetrics "github.com/MrEthical07/goBlog/internal/metrics"
)

// ResolveSession returns the session state for the stored token. It never
// fails: every problem collapses to Anonymous.
func (c *Client) ResolveSession(ctx context.Context) SessionState {
	return c.ResolveSessionWithResult(ctx).State
}

// ResolveSessionWithResult is ResolveSession with the resolver outcome and
// diagnostics attached.
//
// It makes at most one GET /api/me call, only for a token that decodes and
// has not expired. Malformed or expired tokens are removed along with any
// refresh token. A failed profile fetch leaves the token in place.
func (c *Client) ResolveSessionWithResult(ctx context.Context) ResolveResult {
	if !c.ready() {
		return ResolveResult{State: Anonymous(), Outcome: OutcomeStoreUnavailable, Err: ErrClientNotReady}
	}

	start := time.Now()
	res := flows.RunResolve(ctx, c.flows.Resolve)
	c.metrics.Observe(internalmetrics.ResolveLatency, time.Since(start))

	out := ResolveResult{
		State:   Anonymous(),
		Outcome: res.Outcome,
		Claims:  res.Claims,
		Purged:  res.Purged,
		Err:     res.Err,
	}

	var claimed User
	if res.Claims != nil {
		claimed = User{Username: res.Claims.Username, Email: res.Claims.Email, ID: res.Claims.ID}
	}

	switch res.Outcome {
	case flows.ResolveProfileFetched:
		user := User(res.Profile)
		out.State = Authenticated(user)
		c.metrics.Inc(internalmetrics.ResolveAuthenticated)
		c.emitAudit(ctx, auditEventSessionResolved, true, user, "", nil)
	case flows.ResolveTokenMissing:
		c.metrics.Inc(internalmetrics.ResolveTokenMissing)
	case flows.ResolveTokenMalformed:
		c.metrics.Inc(internalmetrics.ResolveTokenMalformed)
		c.recordPurge(ctx, res, claimed, auditErrTokenMalformed)
	case flows.ResolveTokenExpired:
		c.metrics.Inc(internalmetrics.ResolveTokenExpired)
		c.recordPurge(ctx, res, claimed, auditErrTokenExpired)
	case flows.ResolveProfileUnavailable:
		c.metrics.Inc(internalmetrics.ResolveProfileUnavailable)
		c.emitAudit(ctx, auditEventSessionResolved, false, claimed, auditErrProfileUnavailable, nil)
	case flows.ResolveStoreUnavailable:
		c.metrics.Inc(internalmetrics.ResolveStoreUnavailable)
		c.emitAudit(ctx, auditEventSessionResolved, false, User{}, auditErrStoreUnavailable, nil)
	}

	return out
}

func (c *Client) recordPurge(ctx context.Context, res flows.ResolveResult, claimed User, code AuditErrorCode) {
	if res.Purged {
		c.metrics.Inc(internalmetrics.SessionPurged)
	}
	c.emitAudit(ctx, auditEventSessionPurged, res.Purged, claimed, code, map[string]string{
		"reason": res.Outcome.String(),
	})
}

// Logout removes the access and refresh tokens and returns Anonymous.
// Calling it with no stored session is harmless. Store failures are logged.
func (c *Client) Logout(ctx context.Context) SessionState {
	if !c.ready() {
		return Anonymous()
	}

	if err := flows.RunLogout(ctx, c.flows.Logout); err != nil {
		c.logger.ErrorContext(ctx, "logout could not clear session store", "error", err)
		c.emitAudit(ctx, auditEventLogout, false, User{}, auditErrStoreUnavailable, nil)
	} else {
		c.emitAudit(ctx, auditEventLogout, true, User{}, "", nil)
	}
	c.metrics.Inc(internalmetrics.Logout)

	return Anonymous()
}

// Gate decides whether state may navigate to a write action. Anonymous
// sessions are sent to the login route with a warning. The check is
// advisory; the backend enforces authorization.
func (c *Client) Gate(ctx context.Context, state SessionState, action Action) GateDecision {
	res := flows.RunGate(state.IsAuthenticated(), flows.GateDeps{
		Warning:  GateWarning,
		Redirect: RouteLogin,
	})

	if c.ready() {
		if res.Allowed {
			c.metrics.Inc(internalmetrics.GateAllowed)
		} else {
			c.metrics.Inc(internalmetrics.GateBlocked)
			c.emitAudit(ctx, auditEventGateBlocked, false, User{}, auditErrLoginRequired, map[string]string{
				"action": action.String(),
			})
		}
	}

	return GateDecision(res)
}

// Login exchanges credentials for tokens and stores them. Backend rejections
// are returned as *APIError; 400 and 401 match ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if !c.ready() {
		return LoginResult{}, ErrClientNotReady
	}

	resp, err := flows.RunLogin(ctx, username, password, c.flows.Login)
	if err != nil {
		if !errors.Is(err, ErrCredentialsRequired) {
			c.metrics.Inc(internalmetrics.LoginFailure)
			c.emitAudit(ctx, auditEventLoginFailure, false, User{Username: username}, loginAuditCode(err), nil)
		}
		return LoginResult{}, err
	}

	c.metrics.Inc(internalmetrics.LoginSuccess)
	c.emitAudit(ctx, auditEventLoginSuccess, true, User{Username: username}, "", nil)

	return LoginResult{
		Message:         resp.Message,
		HasRefreshToken: resp.RefreshToken != "",
	}, nil
}

func loginAuditCode(err error) AuditErrorCode {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrStoreUnavailable
	default:
		return auditErrBackend
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Message      string `json:"message,omitempty"`
}

func (c *Client) postLogin(ctx context.Context, username, password string) (flows.LoginResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/login", "", loginRequest{Username: username, Password: password})
	if err != nil {
		return flows.LoginResponse{}, err
	}
	if !resp.ok() {
		msg := resp.field("error")
		if msg == "" {
			msg = DefaultLoginError
		}
		return flows.LoginResponse{}, newAPIError("login", resp.status, msg, loginErrorKind(resp.status))
	}

	var body loginResponse
	if err := resp.decode(&body); err != nil {
		return flows.LoginResponse{}, err
	}
	return flows.LoginResponse{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		Message:      body.Message,
	}, nil
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (flows.Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/me", accessToken, nil)
	if err != nil {
		return flows.Profile{}, err
	}
	if !resp.ok() {
		return flows.Profile{}, newAPIError("profile", resp.status, resp.field("error", "message"), ErrBackendUnavailable)
	}

	var user User
	if err := resp.decode(&user); err != nil {
		return flows.Profile{}, err
	}
	if user.Username == "" {
		return flows.Profile{}, fmt.Errorf("%w: profile response missing username", ErrBackendUnavailable)
	}
	return flows.Profile(user), nil
}
