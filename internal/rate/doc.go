// Package rate provides the Redis-backed failed-login throttle used by the
// development backend.
//
// # Window semantics
//
// Fixed-window counters: INCR + EXPIRE on first hit. Key layout under the
// configured prefix:
//   - <prefix>:u:<username> counts failures per username
//   - <prefix>:ip:<ip> counts failures per client IP
//
// # What this package must NOT do
//
//   - Know about HTTP or the blog API.
//   - Be imported outside the goBlog module.
package rate
