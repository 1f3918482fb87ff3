package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vyrodovalexey/versionator/internal/observability"
	"github.com/vyrodovalexey/versionator/internal/router"
	"github.com/vyrodovalexey/versionator/internal/util"
	"github.com/vyrodovalexey/versionator/internal/version"
)

// VersionHeader is the response header carrying the negotiated version
// token, set on every dispatched response.
const VersionHeader = "X-Api-Version"

// unmatchedVersion is the metric label used when resolution failed.
const unmatchedVersion = "unmatched"

// Dispatcher is the per-pattern adapter invoked by the HTTP framework.
// On each request it negotiates the version, resolves the single
// applicable binding, and either invokes the handler or translates the
// failure kind to a transport outcome. Each call is independent; the
// only shared state is the immutable registry view.
type Dispatcher struct {
	registry   *router.Registry
	negotiator version.Negotiator
	logger     observability.Logger
	metrics    *observability.Metrics
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher logger.
func WithDispatcherLogger(logger observability.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDispatcherMetrics enables dispatch metrics.
func WithDispatcherMetrics(metrics *observability.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = metrics
	}
}

// NewDispatcher creates a dispatcher over a populated registry.
func NewDispatcher(reg *router.Registry, neg version.Negotiator, opts ...DispatcherOption) (*Dispatcher, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if neg == nil {
		return nil, ErrNilNegotiator
	}

	d := &Dispatcher{
		registry:   reg,
		negotiator: neg,
		logger:     observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// HandlerFor returns the dispatch entry point for one pattern,
// suitable for installation as the framework handler of that pattern.
func (d *Dispatcher) HandlerFor(pattern string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.Dispatch(pattern, w, r)
	})
}

// Dispatch resolves and invokes the handler for a pattern the outer
// router has already matched.
func (d *Dispatcher) Dispatch(pattern string, w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	res := version.NegotiateRequest(d.negotiator, r)
	w.Header().Set(VersionHeader, res.Version)
	if res.Version == version.Wildcard && d.metrics != nil {
		d.metrics.IncWildcardNegotiation()
	}

	ctx := util.ContextWithVersion(r.Context(), res.Version)
	ctx = util.ContextWithPattern(ctx, pattern)
	r = r.WithContext(ctx)
	if res.Path != r.URL.Path {
		// Path scheme: the handler sees the request without the
		// version segment.
		u := *r.URL
		u.Path = res.Path
		r.URL = &u
	}

	binding, err := d.registry.Resolve(pattern, res.Version, r.Method)
	if err != nil {
		d.dispatchError(pattern, res.Version, w, r, err)
		// Failed dispatches carry a fixed version label; raw header
		// tokens are unbounded.
		d.observe(pattern, unmatchedVersion, r.Method, outcomeFor(err), start)
		return
	}

	logger := d.logger.WithContext(r.Context())
	logger.Debug("dispatching route",
		observability.String("endpoint", binding.Endpoint),
		observability.String("method", r.Method),
	)

	r = r.WithContext(util.ContextWithEndpoint(r.Context(), binding.Endpoint))
	binding.Handler.ServeHTTP(w, r)
	d.observe(pattern, res.Version, r.Method, observability.OutcomeOK, start)
}

// dispatchError translates a resolution failure into a transport
// outcome. The four taxonomy kinds are recovered here; anything else is
// an internal error, logged with its cause.
func (d *Dispatcher) dispatchError(pattern, negotiated string, w http.ResponseWriter, r *http.Request, err error) {
	logger := d.logger.WithContext(r.Context())

	switch {
	case errors.Is(err, util.ErrRouteNotFound):
		logger.Info("no route registered", observability.Error(err))
		writeError(w, http.StatusNotFound, "no route matched the request")
	case errors.Is(err, util.ErrVersionNotSupported):
		logger.Info("version not supported",
			observability.String("negotiated", negotiated),
			observability.Error(err),
		)
		writeError(w, http.StatusNotAcceptable, "version is not supported for this route")
	case errors.Is(err, util.ErrMethodNotSupported):
		logger.Info("method not supported",
			observability.String("method", r.Method),
			observability.Error(err),
		)
		writeError(w, http.StatusMethodNotAllowed, "method is not supported for this route")
	default:
		logger.Error("dispatch failed",
			observability.String("pattern", pattern),
			observability.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// observe records dispatch metrics when enabled.
func (d *Dispatcher) observe(pattern, negotiated, method, outcome string, start time.Time) {
	if d.metrics == nil {
		return
	}
	d.metrics.ObserveDispatch(pattern, negotiated, method, outcome, time.Since(start))
}

// outcomeFor maps a resolution error to its metric outcome label.
func outcomeFor(err error) string {
	switch {
	case errors.Is(err, util.ErrRouteNotFound):
		return observability.OutcomeRouteNotFound
	case errors.Is(err, util.ErrVersionNotSupported):
		return observability.OutcomeVersionNotSupported
	case errors.Is(err, util.ErrMethodNotSupported):
		return observability.OutcomeMethodNotSupported
	default:
		return observability.OutcomeInternalError
	}
}

// errorBody is the JSON error payload.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:   http.StatusText(status),
		Message: message,
	})
}
