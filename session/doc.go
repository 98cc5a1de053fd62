// Package session provides the durable key-value Session Store that holds the
// blog client's access and refresh tokens between runs.
//
// # Backends
//
//   - [FileStore] persists entries to a YAML file (the default for the CLI).
//   - [RedisStore] keeps entries in Redis under a key prefix, so several
//     front-ends can share one login.
//   - [MemoryStore] lives for the process lifetime; used by tests and
//     embedding applications.
//
// # Architecture boundaries
//
// This package owns token persistence only. It does NOT decode tokens, check
// expiry, or decide when a session must be cleared; those decisions belong to
// the resolver in the root package.
//
// # What this package must NOT do
//
//   - Import goBlog or token (no upward imports).
//   - Interpret stored values.
package session
