package flows

import (
	"context"

	"github.com/MrEthical07/goBlog/session"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Store TokenStore
}

// RunLogout removes every session key. Removing absent keys is not an error,
// so repeated calls are harmless.
func RunLogout(ctx context.Context, deps LogoutDeps) error {
	return session.Clear(ctx, deps.Store)
}
