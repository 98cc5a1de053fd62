package goBlog

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goBlog/internal/audit"
	"github.com/MrEthical07/goBlog/internal/flows"
	"github.com/MrEthical07/goBlog/session"
	"github.com/MrEthical07/goBlog/token"
)

// Client talks to the blog backend and owns the session store. Build one
// with [New] and [Builder.Build].
type Client struct {
	config     Config
	baseURL    string
	http       *http.Client
	store      session.Store
	closeStore func() error
	logger     *slog.Logger
	audit      *audit.Dispatcher
	metrics    *Metrics
	now        func() time.Time
	flows      flows.Deps

	closed atomic.Bool
}

func (c *Client) buildFlowDeps() flows.Deps {
	return flows.Deps{
		Resolve: flows.ResolveDeps{
			Store:        c.store,
			Decode:       token.Decode,
			Now:          c.now,
			FetchProfile: c.fetchProfile,
			Logger:       c.logger,
		},
		Logout: flows.LogoutDeps{
			Store: c.store,
		},
		Login: flows.LoginDeps{
			Store:          c.store,
			PostLogin:      c.postLogin,
			DefaultMessage: DefaultLoginMessage,
			Errors: flows.LoginErrors{
				CredentialsRequired: ErrCredentialsRequired,
				BackendUnavailable:  ErrBackendUnavailable,
				StoreUnavailable:    ErrStoreUnavailable,
			},
		},
		PostWrite: flows.PostWriteDeps{
			Store: c.store,
			Errors: flows.PostWriteErrors{
				LoginRequired:    ErrLoginRequired,
				StoreUnavailable: ErrStoreUnavailable,
			},
		},
	}
}

func (c *Client) ready() bool {
	return c != nil && !c.closed.Load()
}

// Close drains pending audit events, bounded by audit.drain_timeout, and
// releases the store opened by Build.
// Calling Close more than once is safe.
func (c *Client) Close() error {
	if c == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.audit.Close()
	if c.closeStore != nil {
		return c.closeStore()
	}
	return nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

// Store exposes the token store, mainly for front-ends that report where the
// session lives.
func (c *Client) Store() session.Store {
	if c == nil {
		return nil
	}
	return c.store
}

func (c *Client) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}
