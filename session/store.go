package session

import (
	"context"
	"errors"
)

const (
	// AccessTokenKey holds the bearer token presented to the backend.
	AccessTokenKey = "access_token"
	// RefreshTokenKey holds the optional refresh token returned at login.
	RefreshTokenKey = "refresh_token"
)

// ErrStoreUnavailable wraps backend failures (I/O, Redis) so callers can tell
// them apart from an absent key.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store is durable key-value storage for session tokens.
//
// Get reports ok=false with a nil error when the key is absent. Remove of an
// absent key is not an error. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Remover is the part of [Store] that [Clear] needs.
type Remover interface {
	Remove(ctx context.Context, key string) error
}

// Keys lists every entry the client writes, in removal order.
func Keys() []string {
	return []string{AccessTokenKey, RefreshTokenKey}
}

// Clear removes both token entries. Every key is attempted even when an
// earlier removal fails; the returned error joins all failures.
func Clear(ctx context.Context, store Remover) error {
	var errs []error
	for _, key := range Keys() {
		if err := store.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
