package middleware

import (
	"net/http"
	"time"

	"github.com/vyrodovalexey/versionator/internal/observability"
	"github.com/vyrodovalexey/versionator/internal/util"
)

// Logging returns a middleware that writes one access record per
// request, including the negotiated version once dispatch has run.
func Logging(logger observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := util.NewStatusCapturingResponseWriter(w)
			next.ServeHTTP(sw, r)

			logger.Info("http request",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.Int("status", sw.StatusCode),
				observability.Int64("size", sw.BytesWritten),
				observability.Duration("duration", time.Since(start)),
				observability.String("remote_addr", r.RemoteAddr),
				observability.String("request_id", util.RequestIDFromContext(r.Context())),
				observability.String("version", sw.Header().Get("X-Api-Version")),
			)
		})
	}
}
