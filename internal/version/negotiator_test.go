package version

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/versionator/internal/util"
)

func TestNew_UnknownScheme(t *testing.T) {
	t.Parallel()

	n, err := New(Scheme("query"))

	require.Error(t, err)
	assert.Nil(t, n)
	assert.True(t, errors.Is(err, util.ErrInvalidScheme))
	assert.Contains(t, err.Error(), "query")
}

func TestNew_Schemes(t *testing.T) {
	t.Parallel()

	header, err := New(SchemeHeader)
	require.NoError(t, err)
	assert.Equal(t, SchemeHeader, header.Scheme())

	path, err := New(SchemePath)
	require.NoError(t, err)
	assert.Equal(t, SchemePath, path.Scheme())
}

func TestHeaderNegotiator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		header      string
		headerValue string
		wantVersion string
	}{
		{
			name:        "default header with token",
			headerValue: "application/vnd.acme.v1",
			wantVersion: "application/vnd.acme.v1",
		},
		{
			name:        "absent header negotiates wildcard",
			wantVersion: Wildcard,
		},
		{
			name:        "raw value taken verbatim",
			headerValue: "application/json;version=2, text/plain",
			wantVersion: "application/json;version=2, text/plain",
		},
		{
			name:        "custom header",
			header:      "X-Api-Version",
			headerValue: "v2",
			wantVersion: "v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []Option
			headerName := DefaultHeader
			if tt.header != "" {
				headerName = tt.header
				opts = append(opts, WithHeader(tt.header))
			}

			n, err := New(SchemeHeader, opts...)
			require.NoError(t, err)

			req := httptest.NewRequest("GET", "/widgets/17", nil)
			if tt.headerValue != "" {
				req.Header.Set(headerName, tt.headerValue)
			}

			res := n.Negotiate(req)
			assert.Equal(t, tt.wantVersion, res.Version)
			assert.Equal(t, "/widgets/17", res.Path,
				"header scheme must leave the path untouched")
		})
	}
}

func TestPathNegotiator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		wantVersion string
		wantPath    string
	}{
		{
			name:        "leading version segment",
			path:        "/v1/widgets",
			wantVersion: "v1",
			wantPath:    "/widgets",
		},
		{
			name:        "multi digit version",
			path:        "/v12/widgets/17",
			wantVersion: "v12",
			wantPath:    "/widgets/17",
		},
		{
			name:        "no version segment",
			path:        "/widgets",
			wantVersion: Wildcard,
			wantPath:    "/widgets",
		},
		{
			name:        "version-like segment deeper in path",
			path:        "/widgets/v1",
			wantVersion: Wildcard,
			wantPath:    "/widgets/v1",
		},
		{
			name:        "segment without digits",
			path:        "/version/widgets",
			wantVersion: Wildcard,
			wantPath:    "/version/widgets",
		},
		{
			name:        "segment with trailing letters",
			path:        "/v1beta/widgets",
			wantVersion: Wildcard,
			wantPath:    "/v1beta/widgets",
		},
		{
			name:        "bare version segment",
			path:        "/v1",
			wantVersion: "v1",
			wantPath:    "/",
		},
	}

	n, err := New(SchemePath)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", tt.path, nil)
			res := n.Negotiate(req)

			assert.Equal(t, tt.wantVersion, res.Version)
			assert.Equal(t, tt.wantPath, res.Path)
		})
	}
}

func TestNegotiateRequest_PrefersStoredResult(t *testing.T) {
	t.Parallel()

	n, err := New(SchemeHeader)
	require.NoError(t, err)

	stored := Result{Version: "v7", Path: "/stored"}
	req := httptest.NewRequest("GET", "/widgets", nil)
	req = req.WithContext(ContextWithResult(req.Context(), stored))
	req.Header.Set(DefaultHeader, "v1")

	assert.Equal(t, stored, NegotiateRequest(n, req))
}

func TestNegotiateRequest_FallsBackToFreshNegotiation(t *testing.T) {
	t.Parallel()

	n, err := New(SchemeHeader)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/widgets", nil)
	req.Header.Set(DefaultHeader, "v1")

	res := NegotiateRequest(n, req)
	assert.Equal(t, "v1", res.Version)
	assert.Equal(t, "/widgets", res.Path)
}

func TestResultFromContext_Missing(t *testing.T) {
	t.Parallel()

	_, ok := ResultFromContext(context.Background())
	assert.False(t, ok)
}
