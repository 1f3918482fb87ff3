package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/versionator/internal/util"
)

func validConfig() *GatewayConfig {
	return &GatewayConfig{
		APIVersion: "versionator/v1",
		Kind:       "Gateway",
		Metadata:   Metadata{Name: "valid"},
		Spec: Spec{
			Listeners: []Listener{{Name: "http", Port: 8080}},
			Versioning: Versioning{
				Scheme: SchemeHeader,
				Header: "Accept",
			},
			Routes: []Route{
				{
					Pattern:  "/widgets",
					Endpoint: "widgets",
					Version:  "v1",
					Methods:  []string{"GET"},
					Upstream: Upstream{URL: "http://localhost:9001"},
				},
			},
		},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfig_Nil(t *testing.T) {
	t.Parallel()

	err := ValidateConfig(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrConfigInvalid))
}

func TestValidateConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*GatewayConfig)
		wantMsg string
	}{
		{
			name:    "missing name",
			mutate:  func(c *GatewayConfig) { c.Metadata.Name = "" },
			wantMsg: "metadata.name",
		},
		{
			name:    "no listeners",
			mutate:  func(c *GatewayConfig) { c.Spec.Listeners = nil },
			wantMsg: "at least one listener",
		},
		{
			name: "listener without name",
			mutate: func(c *GatewayConfig) {
				c.Spec.Listeners[0].Name = ""
			},
			wantMsg: "listener name is required",
		},
		{
			name: "duplicate listener names",
			mutate: func(c *GatewayConfig) {
				c.Spec.Listeners = append(c.Spec.Listeners, Listener{Name: "http", Port: 8081})
			},
			wantMsg: "duplicate listener name",
		},
		{
			name: "port out of range",
			mutate: func(c *GatewayConfig) {
				c.Spec.Listeners[0].Port = 70000
			},
			wantMsg: "port must be between",
		},
		{
			name: "route without pattern",
			mutate: func(c *GatewayConfig) {
				c.Spec.Routes[0].Pattern = ""
			},
			wantMsg: "pattern is required",
		},
		{
			name: "pattern missing leading slash",
			mutate: func(c *GatewayConfig) {
				c.Spec.Routes[0].Pattern = "widgets"
			},
			wantMsg: "pattern must start with /",
		},
		{
			name: "route without endpoint",
			mutate: func(c *GatewayConfig) {
				c.Spec.Routes[0].Endpoint = ""
			},
			wantMsg: "endpoint is required",
		},
		{
			name: "unknown method",
			mutate: func(c *GatewayConfig) {
				c.Spec.Routes[0].Methods = []string{"FETCH"}
			},
			wantMsg: "unknown method FETCH",
		},
		{
			name: "missing upstream url",
			mutate: func(c *GatewayConfig) {
				c.Spec.Routes[0].Upstream.URL = ""
			},
			wantMsg: "upstream url is required",
		},
		{
			name: "relative upstream url",
			mutate: func(c *GatewayConfig) {
				c.Spec.Routes[0].Upstream.URL = "localhost:9001/path"
			},
			wantMsg: "invalid upstream url",
		},
		{
			name: "rate limit without rps",
			mutate: func(c *GatewayConfig) {
				c.Spec.RateLimit = &RateLimit{Enabled: true, Burst: 1}
			},
			wantMsg: "requestsPerSecond",
		},
		{
			name: "rate limit without burst",
			mutate: func(c *GatewayConfig) {
				c.Spec.RateLimit = &RateLimit{Enabled: true, RequestsPerSecond: 10}
			},
			wantMsg: "burst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrConfigInvalid))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateConfig_UnknownScheme(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Spec.Versioning.Scheme = "query"

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrInvalidScheme))
}

func TestValidateConfig_MethodsCaseInsensitive(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Spec.Routes[0].Methods = []string{"get", "Post", "ANY"}

	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfig_PathScheme(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Spec.Versioning = Versioning{Scheme: SchemePath}

	assert.NoError(t, ValidateConfig(cfg))
}
