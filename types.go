package goBlog

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/goBlog/internal/audit"
	"github.com/MrEthical07/goBlog/internal/flows"
	internalmetrics "github.com/MrEthical07/goBlog/internal/metrics"
	"github.com/MrEthical07/goBlog/token"
)

// User is the authenticated profile returned by GET /api/me. It is
// authoritative over the decoded token claims.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ID       int64  `json:"id"`
}

// Post is a blog post as served by /api/blog.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInput is the writable part of a post.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Normalize returns a copy with surrounding whitespace trimmed from every field.
func (in PostInput) Normalize() PostInput {
	return PostInput{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
		Author:  strings.TrimSpace(in.Author),
	}
}

// Validate reports ErrPostFieldsRequired when any field is blank after trimming.
func (in PostInput) Validate() error {
	n := in.Normalize()
	if n.Title == "" || n.Content == "" || n.Author == "" {
		return ErrPostFieldsRequired
	}
	return nil
}

// SessionState is either anonymous or authenticated with a fetched profile.
// The zero value is anonymous.
type SessionState struct {
	user          User
	authenticated bool
}

// Anonymous returns the unauthenticated state.
func Anonymous() SessionState {
	return SessionState{}
}

// Authenticated returns a state carrying u.
func Authenticated(u User) SessionState {
	return SessionState{user: u, authenticated: true}
}

func (s SessionState) IsAuthenticated() bool {
	return s.authenticated
}

// User returns the profile and true for an authenticated state.
func (s SessionState) User() (User, bool) {
	return s.user, s.authenticated
}

func (s SessionState) String() string {
	if !s.authenticated {
		return "anonymous"
	}
	return "authenticated(" + s.user.Username + ")"
}

// ResolveOutcome records which resolver branch produced a state.
type ResolveOutcome = flows.ResolveOutcome

const (
	OutcomeTokenMissing       = flows.ResolveTokenMissing
	OutcomeTokenMalformed     = flows.ResolveTokenMalformed
	OutcomeTokenExpired       = flows.ResolveTokenExpired
	OutcomeProfileFetched     = flows.ResolveProfileFetched
	OutcomeProfileUnavailable = flows.ResolveProfileUnavailable
	OutcomeStoreUnavailable   = flows.ResolveStoreUnavailable
)

// ResolveResult is the detailed output of [Client.ResolveSessionWithResult].
// Err is diagnostic only; State is always usable.
type ResolveResult struct {
	State   SessionState
	Outcome ResolveOutcome
	Claims  *token.Claims
	Purged  bool
	Err     error
}

// Action is a gated write navigation.
type Action uint8

const (
	ActionCreate Action = iota + 1
	ActionEdit
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// GateDecision is the advisory result of [Client.Gate].
type GateDecision struct {
	Allowed  bool
	Warning  string
	Redirect string
}

// LoginResult is returned by a successful [Client.Login].
type LoginResult struct {
	Message         string
	HasRefreshToken bool
}

const (
	RouteHome       = "/"
	RouteLogin      = "/login"
	RouteRegister   = "/register"
	RouteCreatePost = "/create-post"

	// GateWarning is shown when an anonymous session attempts a write.
	GateWarning = "You must be logged in to create or edit a post."
	// DefaultLoginMessage is used when the backend omits one.
	DefaultLoginMessage = "Login successful!"
	// DefaultLoginError is used when a failed login carries no error field.
	DefaultLoginError = "An unexpected error occurred"
)

// PostRoute is the detail route for a post.
func PostRoute(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

// EditPostRoute is the edit form route for a post.
func EditPostRoute(id int64) string {
	return "/edit-post/" + strconv.FormatInt(id, 10)
}

// AuditEvent is the structured audit record emitted by the client.
type AuditEvent = audit.Event

// AuditSink receives audit events.
type AuditSink = audit.Sink

// NoOpSink drops every event.
type NoOpSink = audit.NoOpSink

// ChannelSink writes events into a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes events as JSON lines.
type JSONWriterSink = audit.JSONWriterSink

// SlogSink writes events to a slog.Logger.
type SlogSink = audit.SlogSink

func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return audit.NewSlogSink(logger)
}

// MetricID identifies a counter or histogram.
type MetricID = internalmetrics.MetricID

const (
	MetricResolveAuthenticated      = internalmetrics.ResolveAuthenticated
	MetricResolveTokenMissing       = internalmetrics.ResolveTokenMissing
	MetricResolveTokenMalformed     = internalmetrics.ResolveTokenMalformed
	MetricResolveTokenExpired       = internalmetrics.ResolveTokenExpired
	MetricResolveProfileUnavailable = internalmetrics.ResolveProfileUnavailable
	MetricResolveStoreUnavailable   = internalmetrics.ResolveStoreUnavailable
	MetricSessionPurged             = internalmetrics.SessionPurged
	MetricLogout                    = internalmetrics.Logout
	MetricGateAllowed               = internalmetrics.GateAllowed
	MetricGateBlocked               = internalmetrics.GateBlocked
	MetricLoginSuccess              = internalmetrics.LoginSuccess
	MetricLoginFailure              = internalmetrics.LoginFailure
	MetricPostRead                  = internalmetrics.PostRead
	MetricPostWriteSuccess          = internalmetrics.PostWriteSuccess
	MetricPostWriteFailure          = internalmetrics.PostWriteFailure
	MetricResolveLatency            = internalmetrics.ResolveLatency
)

// Metrics is the client's counter set.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all metric values.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics builds a Metrics from cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:                 cfg.Enabled,
		EnableLatencyHistograms: cfg.EnableLatencyHistograms,
	})
}
