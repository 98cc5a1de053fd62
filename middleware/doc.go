// Package middleware exposes the HTTP guard used by the development backend
// to protect /api/me and the post write routes.
//
// [Guard] reads the Authorization header, verifies the bearer token with a
// [Verifier], and injects the verified claims into the request context.
// Rejections are JSON bodies with a 401 status, which the blog client maps
// to an expired session on write routes.
//
// # What this package must NOT do
//
//   - Issue tokens.
//   - Make authorization decisions beyond pass/reject from the Verifier.
package middleware
