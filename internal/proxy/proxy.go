// Package proxy provides the reverse-proxy handlers registered for
// configured upstreams.
package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/vyrodovalexey/versionator/internal/observability"
	"github.com/vyrodovalexey/versionator/internal/util"
)

// DefaultUpstreamTimeout bounds one upstream round trip.
const DefaultUpstreamTimeout = 30 * time.Second

// Handler is a reverse proxy to a single upstream. One Handler is
// registered per (pattern, version) route; the dispatcher picks the
// right one after version negotiation.
type Handler struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger observability.Logger
}

// Option is a functional option for configuring the handler.
type Option func(*Handler)

// WithProxyLogger sets the logger for the handler.
func WithProxyLogger(logger observability.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithTransport sets the transport used for upstream round trips.
func WithTransport(transport http.RoundTripper) Option {
	return func(h *Handler) {
		h.proxy.Transport = transport
	}
}

// New creates a reverse-proxy handler for an upstream URL.
func New(upstream string, timeout time.Duration, opts ...Option) (*Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("upstream.url", "invalid upstream url", err)
	}

	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}

	h := &Handler{
		target: target,
		proxy:  httputil.NewSingleHostReverseProxy(target),
		logger: observability.NopLogger(),
	}
	h.proxy.Transport = &http.Transport{
		ResponseHeaderTimeout: timeout,
	}
	h.proxy.ErrorHandler = h.handleError

	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// Target returns the upstream URL.
func (h *Handler) Target() *url.URL {
	return h.target
}

// ServeHTTP forwards the request to the upstream.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}

// handleError answers 502 when the upstream is unreachable.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WithContext(r.Context()).Error("upstream request failed",
		observability.String("upstream", h.target.String()),
		observability.String("path", r.URL.Path),
		observability.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":"bad gateway"}`))
}
