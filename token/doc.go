// Package token decodes blog access tokens and, for the development backend,
// issues and verifies them.
//
// # Client-side decoding
//
// [Decode] reads the claims of a stored access token without verifying its
// signature. The client only needs the structure (identity fields and expiry)
// to decide whether a stored token is worth presenting to the backend; the
// backend remains the authority on validity.
//
// # What this package must NOT do
//
//   - Touch the session store or perform network calls.
//   - Treat a successfully decoded token as proof of identity.
package token
