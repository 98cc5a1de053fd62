package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned by [Decode] when the token is not a structurally
// valid JWT carrying blog claims.
var ErrMalformed = errors.New("malformed token")

// ErrMissingExpiry is returned by [Decode] when the token has no exp claim.
// It wraps [ErrMalformed].
var ErrMissingExpiry = fmt.Errorf("%w: missing exp claim", ErrMalformed)

// Claims are the identity fields the blog backend encodes into access tokens.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ID       int64  `json:"id"`
	jwt.RegisteredClaims
}

var unverifiedParser = jwt.NewParser()

// Decode extracts claims from the payload segment of tokenStr. The header and
// signature are not inspected; the backend verifies them.
//
// A wrong segment count, bad base64, a payload that is not a claims object, or
// a missing exp yields an error wrapping [ErrMalformed].
func Decode(tokenStr string) (*Claims, error) {
	parts := strings.Split(strings.TrimSpace(tokenStr), ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	payload, err := unverifiedParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}

	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: claims: %v", ErrMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}

	return claims, nil
}

// ExpiresAtUnix returns exp in whole seconds, or 0 when absent.
func (c *Claims) ExpiresAtUnix() int64 {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

// Expired reports whether exp is at or before now, compared in whole seconds.
// Claims without exp are always expired.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Unix() <= now.Unix()
}
