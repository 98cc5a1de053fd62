// Package goBlog is a client for a blog HTTP API with an optional
// username/password session gating write operations.
//
// The core is the session resolver: [Client.ResolveSession] reads the stored
// access token, decodes its claims locally, discards it when malformed or
// expired, and otherwise fetches the authoritative profile from the backend.
// Views and commands call it once per activation and derive their
// affordances from the returned [SessionState].
//
// Client methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goBlog is the public surface. It exposes [Client], [Builder], [Config], and
// value types (Post, User, SessionState, MetricsSnapshot). Flow orchestration,
// audit dispatch, and metric storage live under internal/ and are never
// exported. Token storage backends live in the session package.
//
// # What this package must NOT do
//
//   - Verify token signatures. Claims are decoded for expiry only; the
//     backend is the authority.
//   - Write a token anywhere other than [Client.Login].
//   - Import any sub-package that re-imports goBlog (no import cycles).
package goBlog
