package view

import (
	"context"
	"sync"

	goBlog "github.com/MrEthical07/goBlog"
)

// Activation tracks one screen's session resolution. State reports
// Anonymous until the resolver returns. After Close a late result is
// dropped; the resolve call itself is left to finish.
type Activation struct {
	mu       sync.Mutex
	state    goBlog.SessionState
	resolved bool
	closed   bool
	done     chan struct{}
}

// Activate starts resolving in the background.
func Activate(ctx context.Context, r Resolver) *Activation {
	a := &Activation{
		state: goBlog.Anonymous(),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(a.done)
		state := r.ResolveSession(ctx)

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.closed {
			return
		}
		a.state = state
		a.resolved = true
	}()
	return a
}

// State returns the current session state.
func (a *Activation) State() goBlog.SessionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Resolved reports whether a result was applied.
func (a *Activation) Resolved() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolved
}

// Wait blocks until the resolver returns or ctx ends.
func (a *Activation) Wait(ctx context.Context) (goBlog.SessionState, error) {
	select {
	case <-a.done:
		return a.State(), nil
	case <-ctx.Done():
		return a.State(), ctx.Err()
	}
}

// Close tears the activation down. It is idempotent.
func (a *Activation) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}
