package version

import (
	"context"
	"net/http"
)

type ctxKey struct{}

// ContextWithResult stores a negotiation result in the context. The
// gateway negotiates once before pattern matching (required for the
// path scheme, where the version segment is stripped first) and hands
// the result to the dispatcher through the request context.
func ContextWithResult(ctx context.Context, res Result) context.Context {
	return context.WithValue(ctx, ctxKey{}, res)
}

// ResultFromContext returns a previously stored negotiation result.
func ResultFromContext(ctx context.Context) (Result, bool) {
	res, ok := ctx.Value(ctxKey{}).(Result)
	return res, ok
}

// NegotiateRequest returns the stored negotiation result for the
// request, or negotiates fresh when none is present.
func NegotiateRequest(n Negotiator, r *http.Request) Result {
	if res, ok := ResultFromContext(r.Context()); ok {
		return res
	}
	return n.Negotiate(r)
}
