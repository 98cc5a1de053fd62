package goBlog

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a request identifier to ctx. Outbound requests carry
// it in the X-Request-ID header; without one a random UUID is generated per
// request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the identifier set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}
