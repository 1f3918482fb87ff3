package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/versionator/internal/config"
	"github.com/vyrodovalexey/versionator/internal/router"
	"github.com/vyrodovalexey/versionator/internal/version"
)

func testConfig() *config.GatewayConfig {
	cfg := config.DefaultConfig()
	cfg.Metadata.Name = "test-gateway"
	cfg.Spec.Listeners = []config.Listener{
		{Name: "http", Bind: "127.0.0.1", Port: 0},
	}
	return cfg
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    State
		expected string
	}{
		{StateStopped, "stopped"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.state.String())
	}
}

func TestNewGateway_Validation(t *testing.T) {
	t.Parallel()

	reg := router.NewRegistry()
	neg := headerNegotiator(t)

	_, err := New(nil, reg, neg)
	assert.True(t, errors.Is(err, ErrNilConfig))

	_, err = New(testConfig(), nil, neg)
	assert.True(t, errors.Is(err, ErrNilRegistry))

	_, err = New(testConfig(), reg, nil)
	assert.True(t, errors.Is(err, ErrNilNegotiator))

	gw, err := New(testConfig(), reg, neg)
	require.NoError(t, err)
	assert.Equal(t, StateStopped, gw.State())
	assert.False(t, gw.IsRunning())
	assert.Zero(t, gw.Uptime())
}

func TestGatewayServeHTTP_HeaderScheme(t *testing.T) {
	t.Parallel()

	gw, err := New(testConfig(), newTestRegistry(t), headerNegotiator(t))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/widgets", nil)
	req.Header.Set("X-Api-Version", "v1")
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1 widgets", rec.Body.String())
	assert.Equal(t, "v1", rec.Header().Get(VersionHeader))
}

func TestGatewayServeHTTP_PathScheme(t *testing.T) {
	t.Parallel()

	neg, err := version.New(version.SchemePath)
	require.NoError(t, err)

	reg := router.NewRegistry()
	require.NoError(t, reg.Register("/widgets", "widgets",
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("stripped"))
		}),
		router.WithVersion("v1"),
	))

	gw, err := New(testConfig(), reg, neg)
	require.NoError(t, err)

	// The version segment is removed before pattern matching, so the
	// engine matches /widgets even though the wire path is /v1/widgets.
	req := httptest.NewRequest("GET", "/v1/widgets", nil)
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stripped", rec.Body.String())
	assert.Equal(t, "v1", rec.Header().Get(VersionHeader))
}

func TestGatewayServeHTTP_UnknownPath(t *testing.T) {
	t.Parallel()

	gw, err := New(testConfig(), newTestRegistry(t), headerNegotiator(t))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/nowhere", nil)
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatewayServeHTTP_VersionErrorStatuses(t *testing.T) {
	t.Parallel()

	gw, err := New(testConfig(), newTestRegistry(t), headerNegotiator(t))
	require.NoError(t, err)

	t.Run("unsupported version", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/widgets", nil)
		req.Header.Set("X-Api-Version", "v9")
		rec := httptest.NewRecorder()

		gw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})

	t.Run("unsupported method", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("DELETE", "/widgets", nil)
		req.Header.Set("X-Api-Version", "v1")
		rec := httptest.NewRecorder()

		gw.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestGatewayMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	gw, err := New(testConfig(), newTestRegistry(t), headerNegotiator(t),
		WithMiddleware(mw("outer"), mw("inner")),
	)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/widgets", nil)
	req.Header.Set("X-Api-Version", "v1")
	gw.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestGatewayReload(t *testing.T) {
	t.Parallel()

	gw, err := New(testConfig(), newTestRegistry(t), headerNegotiator(t))
	require.NoError(t, err)

	assert.True(t, errors.Is(gw.Reload(nil), ErrNilRegistry))

	fresh := router.NewRegistry()
	require.NoError(t, fresh.Register("/gadgets", "gadgets",
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("gadgets"))
		}),
		router.WithVersion("v1"),
	))
	require.NoError(t, gw.Reload(fresh))

	req := httptest.NewRequest("GET", "/gadgets", nil)
	req.Header.Set("X-Api-Version", "v1")
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gadgets", rec.Body.String())

	// Routes absent from the fresh registry stop matching.
	req = httptest.NewRequest("GET", "/widgets", nil)
	req.Header.Set("X-Api-Version", "v1")
	rec = httptest.NewRecorder()
	gw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatewayLifecycle(t *testing.T) {
	t.Parallel()

	gw, err := New(testConfig(), newTestRegistry(t), headerNegotiator(t))
	require.NoError(t, err)

	ctx := context.Background()

	assert.True(t, errors.Is(gw.Stop(ctx), ErrGatewayNotRunning))

	require.NoError(t, gw.Start(ctx))
	assert.True(t, gw.IsRunning())
	assert.True(t, errors.Is(gw.Start(ctx), ErrGatewayNotStopped))

	require.NoError(t, gw.Stop(ctx))
	assert.Equal(t, StateStopped, gw.State())
}
