package middleware

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vyrodovalexey/versionator/internal/config"
	"github.com/vyrodovalexey/versionator/internal/observability"
	"github.com/vyrodovalexey/versionator/internal/util"
)

// Circuit breaker defaults.
const (
	// DefaultCBMaxRequests is the number of probe requests allowed in
	// half-open state.
	DefaultCBMaxRequests = 5

	// DefaultCBInterval is the cyclic period used to clear counts in
	// closed state.
	DefaultCBInterval = time.Minute

	// DefaultCBTimeout is how long the breaker stays open before
	// transitioning to half-open.
	DefaultCBTimeout = 30 * time.Second

	// DefaultCBFailureThreshold is the number of consecutive upstream
	// failures that trips the breaker.
	DefaultCBFailureThreshold = 5
)

// CircuitBreaker returns a middleware that trips when upstream
// responses fail consecutively. While open, requests are answered with
// 503 without invoking the wrapped handler.
func CircuitBreaker(cfg *config.CircuitBreaker, logger observability.Logger) func(http.Handler) http.Handler {
	settings := gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval.Duration(),
		Timeout:     cfg.Timeout.Duration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			threshold := cfg.FailureThreshold
			if threshold == 0 {
				threshold = DefaultCBFailureThreshold
			}
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
		},
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = DefaultCBMaxRequests
	}
	if settings.Interval == 0 {
		settings.Interval = DefaultCBInterval
	}
	if settings.Timeout == 0 {
		settings.Timeout = DefaultCBTimeout
	}

	cb := gobreaker.NewCircuitBreaker(settings)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := cb.Execute(func() (interface{}, error) {
				sw := util.NewStatusCapturingResponseWriter(w)
				next.ServeHTTP(sw, r)

				if sw.StatusCode >= http.StatusInternalServerError {
					return nil, util.NewServerError(sw.StatusCode)
				}
				return nil, nil
			})

			if err == nil {
				return
			}

			// Upstream failures already wrote their response; only the
			// breaker rejections need one here.
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				logger.Warn("circuit breaker rejected request",
					observability.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = io.WriteString(w, `{"error":"service unavailable"}`)
			}
		})
	}
}
