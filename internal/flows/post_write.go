package flows

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goBlog/session"
)

// PostWriteErrors carries host-level sentinel errors used by write flows.
type PostWriteErrors struct {
	LoginRequired    error
	StoreUnavailable error
}

// PostWriteDeps captures dependencies shared by create, update and delete.
type PostWriteDeps struct {
	Store  TokenReader
	Errors PostWriteErrors
}

// RunPostWrite reads the access token at submit time and hands it to send.
// A missing token fails with LoginRequired before any request is made. The
// token is never removed here, whatever send returns.
func RunPostWrite(ctx context.Context, deps PostWriteDeps, send func(ctx context.Context, accessToken string) error) error {
	accessToken, ok, err := deps.Store.Get(ctx, session.AccessTokenKey)
	if err != nil {
		return fmt.Errorf("%w: %v", deps.Errors.StoreUnavailable, err)
	}
	if !ok || accessToken == "" {
		return deps.Errors.LoginRequired
	}
	return send(ctx, accessToken)
}
