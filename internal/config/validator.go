package config

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vyrodovalexey/versionator/internal/util"
)

// validMethods is the set of method tokens accepted in route
// configuration, the ANY sentinel included.
var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
	"ANY":              true,
}

// ValidateConfig validates a full gateway configuration.
func ValidateConfig(cfg *GatewayConfig) error {
	if cfg == nil {
		return util.NewConfigError("", "configuration is nil")
	}

	if cfg.Metadata.Name == "" {
		return util.NewConfigError("metadata.name", "name is required")
	}

	if err := validateListeners(cfg.Spec.Listeners); err != nil {
		return err
	}

	if err := validateVersioning(cfg.Spec.Versioning); err != nil {
		return err
	}

	for i, route := range cfg.Spec.Routes {
		if err := validateRoute(i, route); err != nil {
			return err
		}
	}

	if rl := cfg.Spec.RateLimit; rl != nil && rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			return util.NewConfigError("spec.rateLimit.requestsPerSecond",
				"must be positive when rate limiting is enabled")
		}
		if rl.Burst < 1 {
			return util.NewConfigError("spec.rateLimit.burst",
				"must be at least 1 when rate limiting is enabled")
		}
	}

	return nil
}

// validateListeners validates listener sockets.
func validateListeners(listeners []Listener) error {
	if len(listeners) == 0 {
		return util.NewConfigError("spec.listeners", "at least one listener is required")
	}

	seen := make(map[string]bool, len(listeners))
	for i, l := range listeners {
		field := fmt.Sprintf("spec.listeners[%d]", i)
		if l.Name == "" {
			return util.NewConfigError(field+".name", "listener name is required")
		}
		if seen[l.Name] {
			return util.NewConfigError(field+".name",
				fmt.Sprintf("duplicate listener name %s", l.Name))
		}
		seen[l.Name] = true
		if l.Port < 1 || l.Port > 65535 {
			return util.NewConfigError(field+".port", "port must be between 1 and 65535")
		}
	}
	return nil
}

// validateVersioning checks the negotiation scheme. An unknown scheme
// is fatal to setup.
func validateVersioning(v Versioning) error {
	switch v.Scheme {
	case SchemeHeader, SchemePath:
		return nil
	default:
		return util.NewInvalidVersioningSchemeError(v.Scheme)
	}
}

// validateRoute validates one route entry.
func validateRoute(i int, route Route) error {
	field := fmt.Sprintf("spec.routes[%d]", i)

	if route.Pattern == "" {
		return util.NewConfigError(field+".pattern", "pattern is required")
	}
	if !strings.HasPrefix(route.Pattern, "/") {
		return util.NewConfigError(field+".pattern", "pattern must start with /")
	}
	if route.Endpoint == "" {
		return util.NewConfigError(field+".endpoint", "endpoint is required")
	}

	for _, m := range route.Methods {
		if !validMethods[strings.ToUpper(m)] {
			return util.NewConfigError(field+".methods",
				fmt.Sprintf("unknown method %s", m))
		}
	}

	if route.Upstream.URL == "" {
		return util.NewConfigError(field+".upstream.url", "upstream url is required")
	}
	u, err := url.Parse(route.Upstream.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return util.NewConfigError(field+".upstream.url",
			fmt.Sprintf("invalid upstream url %s", route.Upstream.URL))
	}

	return nil
}
