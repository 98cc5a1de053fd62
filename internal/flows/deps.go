package flows

import "context"

// TokenReader is the read half of the session store.
type TokenReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// TokenStore is the subset of session.Store used by resolve and logout.
// Flows never write a token except through login.
type TokenStore interface {
	TokenReader
	Remove(ctx context.Context, key string) error
}

// Deps groups flow dependency sets. Root client builds this once and delegates
// operations to the matching flow implementation.
type Deps struct {
	Resolve   ResolveDeps
	Logout    LogoutDeps
	Login     LoginDeps
	PostWrite PostWriteDeps
}
