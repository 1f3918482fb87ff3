package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vyrodovalexey/versionator/internal/config"
	"github.com/vyrodovalexey/versionator/internal/observability"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	t.Parallel()

	handler := RateLimit(100, 10, observability.NopLogger())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/widgets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	t.Parallel()

	// A refill rate near zero makes the burst the effective budget.
	handler := RateLimit(0.0001, 2, observability.NopLogger())(okHandler())

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/widgets", nil))
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
	assert.Equal(t, http.StatusTooManyRequests, statuses[3])
}

func TestRateLimitFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.RateLimit{Enabled: true, RequestsPerSecond: 100, Burst: 10}
	handler := RateLimitFromConfig(cfg, observability.NopLogger())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/widgets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
