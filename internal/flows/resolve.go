package flows

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MrEthical07/goBlog/session"
	"github.com/MrEthical07/goBlog/token"
)

// ResolveOutcome records which branch of the resolver produced the state.
type ResolveOutcome uint8

const (
	// ResolveTokenMissing means no access token was stored. No network call.
	ResolveTokenMissing ResolveOutcome = iota + 1
	// ResolveTokenMalformed means the stored token did not decode. Purged.
	ResolveTokenMalformed
	// ResolveTokenExpired means exp <= now. Purged.
	ResolveTokenExpired
	// ResolveProfileFetched means the profile call succeeded.
	ResolveProfileFetched
	// ResolveProfileUnavailable means the profile call failed. Token kept.
	ResolveProfileUnavailable
	// ResolveStoreUnavailable means the token could not be read.
	ResolveStoreUnavailable
)

func (o ResolveOutcome) String() string {
	switch o {
	case ResolveTokenMissing:
		return "token_missing"
	case ResolveTokenMalformed:
		return "token_malformed"
	case ResolveTokenExpired:
		return "token_expired"
	case ResolveProfileFetched:
		return "profile_fetched"
	case ResolveProfileUnavailable:
		return "profile_unavailable"
	case ResolveStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Profile is the flow-local authenticated user record.
type Profile struct {
	Username string
	Email    string
	ID       int64
}

// ResolveDeps captures session resolver dependencies.
type ResolveDeps struct {
	Store        TokenStore
	Decode       func(string) (*token.Claims, error)
	Now          func() time.Time
	FetchProfile func(ctx context.Context, accessToken string) (Profile, error)
	Logger       *slog.Logger
}

// ResolveResult is the full resolver output. Authenticated is true only for
// ResolveProfileFetched.
type ResolveResult struct {
	Outcome       ResolveOutcome
	Authenticated bool
	Profile       Profile
	Claims        *token.Claims
	Purged        bool
	Err           error
}

// RunResolve decides the session state from the stored access token. It makes
// at most one FetchProfile call and never writes a token.
func RunResolve(ctx context.Context, deps ResolveDeps) ResolveResult {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	raw, ok, err := deps.Store.Get(ctx, session.AccessTokenKey)
	if err != nil {
		logger.ErrorContext(ctx, "session store read failed", "error", err)
		return ResolveResult{Outcome: ResolveStoreUnavailable, Err: err}
	}
	if !ok || raw == "" {
		return ResolveResult{Outcome: ResolveTokenMissing}
	}

	claims, err := deps.Decode(raw)
	if err != nil {
		res := ResolveResult{Outcome: ResolveTokenMalformed, Err: err}
		res.Purged = purgeAndLog(ctx, deps.Store, logger, res.Outcome, &res.Err)
		return res
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	if claims.Expired(now) {
		res := ResolveResult{Outcome: ResolveTokenExpired, Claims: claims}
		res.Purged = purgeAndLog(ctx, deps.Store, logger, res.Outcome, &res.Err)
		return res
	}

	profile, err := deps.FetchProfile(ctx, raw)
	if err != nil {
		logger.WarnContext(ctx, "profile fetch failed; session left in place",
			"username", claims.Username,
			"expires_at", claims.ExpiresAtUnix(),
			"error", err,
		)
		return ResolveResult{Outcome: ResolveProfileUnavailable, Claims: claims, Err: err}
	}

	return ResolveResult{
		Outcome:       ResolveProfileFetched,
		Authenticated: true,
		Profile:       profile,
		Claims:        claims,
	}
}

func purgeAndLog(ctx context.Context, store TokenStore, logger *slog.Logger, outcome ResolveOutcome, errOut *error) bool {
	if err := session.Clear(ctx, store); err != nil {
		logger.ErrorContext(ctx, "session purge failed", "reason", outcome.String(), "error", err)
		*errOut = errors.Join(*errOut, err)
		return false
	}
	logger.InfoContext(ctx, "session purged", "reason", outcome.String())
	return true
}
