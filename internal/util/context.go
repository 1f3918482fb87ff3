package util

import "context"

// Context keys.
type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyVersion   ctxKey = "negotiated_version"
	ctxKeyPattern   ctxKey = "matched_pattern"
	ctxKeyEndpoint  ctxKey = "endpoint"
)

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// ContextWithVersion adds the negotiated version token to the context.
func ContextWithVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, ctxKeyVersion, version)
}

// VersionFromContext extracts the negotiated version token from context.
func VersionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyVersion).(string); ok {
		return v
	}
	return ""
}

// ContextWithPattern adds the matched route pattern to the context.
func ContextWithPattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, ctxKeyPattern, pattern)
}

// PatternFromContext extracts the matched route pattern from context.
func PatternFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyPattern).(string); ok {
		return v
	}
	return ""
}

// ContextWithEndpoint adds the resolved endpoint identifier to the context.
func ContextWithEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, ctxKeyEndpoint, endpoint)
}

// EndpointFromContext extracts the resolved endpoint identifier from context.
func EndpointFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyEndpoint).(string); ok {
		return v
	}
	return ""
}
