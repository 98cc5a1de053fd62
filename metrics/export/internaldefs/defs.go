package internaldefs

import (
	goBlog "github.com/MrEthical07/goBlog"
)

// CounterDef names one client counter for exporters.
type CounterDef struct {
	ID   goBlog.MetricID
	Name string
	Help string
}

// HistogramDef names one client histogram for exporters.
type HistogramDef struct {
	ID   goBlog.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goBlog.MetricResolveAuthenticated, Name: "goblog_resolve_authenticated_total", Help: "Resolutions that produced an authenticated session."},
	{ID: goBlog.MetricResolveTokenMissing, Name: "goblog_resolve_token_missing_total", Help: "Resolutions with no stored access token."},
	{ID: goBlog.MetricResolveTokenMalformed, Name: "goblog_resolve_token_malformed_total", Help: "Resolutions that found an undecodable token."},
	{ID: goBlog.MetricResolveTokenExpired, Name: "goblog_resolve_token_expired_total", Help: "Resolutions that found an expired token."},
	{ID: goBlog.MetricResolveProfileUnavailable, Name: "goblog_resolve_profile_unavailable_total", Help: "Resolutions where the profile fetch failed."},
	{ID: goBlog.MetricResolveStoreUnavailable, Name: "goblog_resolve_store_unavailable_total", Help: "Resolutions where the session store could not be read."},
	{ID: goBlog.MetricSessionPurged, Name: "goblog_session_purged_total", Help: "Stored sessions discarded by the resolver."},
	{ID: goBlog.MetricLogout, Name: "goblog_logout_total", Help: "Logout operations."},
	{ID: goBlog.MetricGateAllowed, Name: "goblog_gate_allowed_total", Help: "Write navigations allowed by the session gate."},
	{ID: goBlog.MetricGateBlocked, Name: "goblog_gate_blocked_total", Help: "Write navigations redirected to login."},
	{ID: goBlog.MetricLoginSuccess, Name: "goblog_login_success_total", Help: "Successful logins."},
	{ID: goBlog.MetricLoginFailure, Name: "goblog_login_failure_total", Help: "Failed logins."},
	{ID: goBlog.MetricPostRead, Name: "goblog_post_read_total", Help: "Successful post list and detail reads."},
	{ID: goBlog.MetricPostWriteSuccess, Name: "goblog_post_write_success_total", Help: "Successful post create, update and delete calls."},
	{ID: goBlog.MetricPostWriteFailure, Name: "goblog_post_write_failure_total", Help: "Failed post create, update and delete calls."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goBlog.MetricResolveLatency, Name: "goblog_resolve_latency_seconds", Help: "Session resolution latency."},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const (
	AuditDroppedName = "goblog_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramBounds are the bucket labels, matching the collector's buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramUpperBounds are the finite bounds in seconds; +Inf is implied.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
