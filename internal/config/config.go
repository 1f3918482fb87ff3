// Package config provides configuration types and loading for the
// versioned gateway.
//
// The package defines the configuration model, YAML loading with
// ${VAR:-default} environment substitution, validation, and file
// watching for reload support.
package config

// Versioning scheme names accepted in configuration.
const (
	SchemeHeader = "header"
	SchemePath   = "path"
)

// GatewayConfig is the top-level configuration.
type GatewayConfig struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

// Metadata identifies a configuration.
type Metadata struct {
	Name        string            `yaml:"name"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// Spec is the gateway specification.
type Spec struct {
	Listeners      []Listener      `yaml:"listeners"`
	Versioning     Versioning      `yaml:"versioning"`
	Routes         []Route         `yaml:"routes"`
	RateLimit      *RateLimit      `yaml:"rateLimit,omitempty"`
	CircuitBreaker *CircuitBreaker `yaml:"circuitBreaker,omitempty"`
	Observability  *Observability  `yaml:"observability,omitempty"`
}

// Listener describes one HTTP listening socket.
type Listener struct {
	Name string `yaml:"name"`
	Bind string `yaml:"bind,omitempty"`
	Port int    `yaml:"port"`
}

// Versioning selects the negotiation scheme for the whole gateway
// instance; it cannot be mixed per-route.
type Versioning struct {
	Scheme string `yaml:"scheme"`
	// Header is the request header carrying the version token under
	// the header scheme. Defaults to Accept.
	Header string `yaml:"header,omitempty"`
	// DefaultVersion, when set, is used for routes that declare no
	// version of their own.
	DefaultVersion string `yaml:"defaultVersion,omitempty"`
}

// Route binds one (pattern, version, methods) group to an upstream.
type Route struct {
	Pattern  string   `yaml:"pattern"`
	Endpoint string   `yaml:"endpoint"`
	Version  string   `yaml:"version,omitempty"`
	Methods  []string `yaml:"methods,omitempty"`
	Upstream Upstream `yaml:"upstream"`
}

// Upstream describes the proxied backend for a route.
type Upstream struct {
	URL     string   `yaml:"url"`
	Timeout Duration `yaml:"timeout,omitempty"`
}

// RateLimit configures the token bucket applied in front of dispatch.
type RateLimit struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// CircuitBreaker configures the breaker guarding upstream calls.
type CircuitBreaker struct {
	Enabled          bool     `yaml:"enabled"`
	MaxRequests      uint32   `yaml:"maxRequests,omitempty"`
	Interval         Duration `yaml:"interval,omitempty"`
	Timeout          Duration `yaml:"timeout,omitempty"`
	FailureThreshold uint32   `yaml:"failureThreshold,omitempty"`
}

// Observability configures logging, metrics, and tracing.
type Observability struct {
	Logging *Logging `yaml:"logging,omitempty"`
	Metrics *Metrics `yaml:"metrics,omitempty"`
	Tracing *Tracing `yaml:"tracing,omitempty"`
}

// Logging configures log output.
type Logging struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Tracing configures OpenTelemetry export.
type Tracing struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName,omitempty"`
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty"`
}

// DefaultConfig returns a configuration with defaults applied.
func DefaultConfig() *GatewayConfig {
	return &GatewayConfig{
		APIVersion: "versionator/v1",
		Kind:       "Gateway",
		Spec: Spec{
			Listeners: []Listener{
				{Name: "http", Port: 8080},
			},
			Versioning: Versioning{
				Scheme: SchemeHeader,
				Header: "Accept",
			},
		},
	}
}
