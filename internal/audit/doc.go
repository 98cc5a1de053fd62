// Package audit relays session and post events to caller-supplied sinks
// without blocking the client's request path.
//
// # Components
//
//   - [Sink]: event consumer (channel, JSON lines, slog, no-op, fan-out).
//   - [Dispatcher]: buffered async relay; drops and counts when full if configured.
//   - [Event]: timestamped record with request ID, user identity, and metadata.
//
// # What this package must NOT do
//
//   - Decide which events are emitted; the client does that.
//   - Import goBlog or any sibling internal package.
package audit
