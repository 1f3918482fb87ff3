package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
apiVersion: versionator/v1
kind: Gateway
metadata:
  name: sample
spec:
  listeners:
    - name: http
      port: 8080
  versioning:
    scheme: header
    header: Accept
  routes:
    - pattern: /widgets
      endpoint: widgets
      version: application/vnd.acme.v1
      methods: [GET, POST]
      upstream:
        url: http://localhost:9001
        timeout: 10s
`

func TestLoadConfigFromReader(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "versionator/v1", cfg.APIVersion)
	assert.Equal(t, "Gateway", cfg.Kind)
	assert.Equal(t, "sample", cfg.Metadata.Name)

	require.Len(t, cfg.Spec.Listeners, 1)
	assert.Equal(t, 8080, cfg.Spec.Listeners[0].Port)

	assert.Equal(t, SchemeHeader, cfg.Spec.Versioning.Scheme)

	require.Len(t, cfg.Spec.Routes, 1)
	route := cfg.Spec.Routes[0]
	assert.Equal(t, "/widgets", route.Pattern)
	assert.Equal(t, "widgets", route.Endpoint)
	assert.Equal(t, "application/vnd.acme.v1", route.Version)
	assert.Equal(t, []string{"GET", "POST"}, route.Methods)
	assert.Equal(t, "http://localhost:9001", route.Upstream.URL)
	assert.Equal(t, Duration(10*time.Second), route.Upstream.Timeout)
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", cfg.Metadata.Name)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFromReader(strings.NewReader("{not yaml: ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromReader(strings.NewReader(`
metadata:
  name: minimal
`))
	require.NoError(t, err)

	assert.Equal(t, SchemeHeader, cfg.Spec.Versioning.Scheme)
	assert.Equal(t, "Accept", cfg.Spec.Versioning.Header)
	require.Len(t, cfg.Spec.Listeners, 1)
	assert.Equal(t, 8080, cfg.Spec.Listeners[0].Port)
}

func TestSubstituteEnvVars(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected string
	}{
		{
			name:     "set variable",
			content:  "port: ${TEST_PORT}",
			env:      map[string]string{"TEST_PORT": "9999"},
			expected: "port: 9999",
		},
		{
			name:     "unset variable without default",
			content:  "port: ${TEST_UNSET_VAR}",
			expected: "port: ",
		},
		{
			name:     "unset variable with default",
			content:  "port: ${TEST_UNSET_VAR:-8080}",
			expected: "port: 8080",
		},
		{
			name:     "set variable overrides default",
			content:  "port: ${TEST_PORT:-8080}",
			env:      map[string]string{"TEST_PORT": "9999"},
			expected: "port: 9999",
		},
		{
			name:     "escaped dollar sign",
			content:  "value: $${NOT_A_VAR}",
			expected: "value: ${NOT_A_VAR}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.expected, substituteEnvVars(tt.content))
		})
	}
}

func TestLoadConfig_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_UPSTREAM_URL", "http://example.com:9001")

	cfg, err := LoadConfigFromReader(strings.NewReader(`
metadata:
  name: env-test
spec:
  routes:
    - pattern: /widgets
      endpoint: widgets
      upstream:
        url: ${TEST_UPSTREAM_URL:-http://localhost:9001}
`))
	require.NoError(t, err)
	require.Len(t, cfg.Spec.Routes, 1)
	assert.Equal(t, "http://example.com:9001", cfg.Spec.Routes[0].Upstream.URL)
}
