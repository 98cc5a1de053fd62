package goBlog

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrEthical07/goBlog/internal/audit"
	"github.com/MrEthical07/goBlog/session"
)

// Builder assembles a [Client]. A Builder is single-use.
type Builder struct {
	config     Config
	store      session.Store
	httpClient *http.Client
	logger     *slog.Logger
	auditSinks []AuditSink
	now        func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore overrides the store that Build would otherwise open from
// Config.Session. The caller keeps ownership of store.
func (b *Builder) WithStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithHTTPClient replaces the default client built from Config.API.Timeout.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink adds a destination for audit events. Each call adds another
// sink; every event reaches all of them in the order they were added.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	if sink != nil {
		b.auditSinks = append(b.auditSinks, sink)
	}
	return b
}

// WithClock sets the time source used for token expiry checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Client.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	closeStore := func() error { return nil }
	if store == nil {
		s, closer, err := OpenStore(cfg.Session)
		if err != nil {
			return nil, err
		}
		store, closeStore = s, closer
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	c := &Client{
		config:     cfg,
		baseURL:    cfg.baseURL(),
		http:       httpClient,
		store:      store,
		closeStore: closeStore,
		logger:     logger.With(slog.String("component", "goblog")),
		metrics:    NewMetrics(cfg.Metrics),
		now:        now,
	}
	c.audit = audit.NewDispatcher(audit.Config{
		Enabled:      cfg.Audit.Enabled,
		BufferSize:   cfg.Audit.BufferSize,
		DropIfFull:   cfg.Audit.DropIfFull,
		DrainTimeout: cfg.Audit.DrainTimeout,
	}, b.auditSink())
	c.flows = c.buildFlowDeps()

	b.built = true

	return c, nil
}

func (b *Builder) auditSink() AuditSink {
	switch len(b.auditSinks) {
	case 0:
		return nil
	case 1:
		return b.auditSinks[0]
	default:
		return audit.MultiSink(b.auditSinks)
	}
}
