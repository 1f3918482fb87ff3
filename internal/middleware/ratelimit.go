package middleware

import (
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/versionator/internal/config"
	"github.com/vyrodovalexey/versionator/internal/observability"
)

// RateLimit returns a middleware that applies a global token bucket in
// front of dispatch.
func RateLimit(rps float64, burst int, logger observability.Logger) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn("rate limit exceeded",
					observability.String("path", r.URL.Path),
					observability.String("remote_addr", r.RemoteAddr),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = io.WriteString(w, `{"error":"rate limit exceeded"}`)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitFromConfig builds the rate limit middleware from
// configuration.
func RateLimitFromConfig(cfg *config.RateLimit, logger observability.Logger) func(http.Handler) http.Handler {
	return RateLimit(cfg.RequestsPerSecond, cfg.Burst, logger)
}
