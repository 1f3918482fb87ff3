// Package util provides shared utility types for the versioned gateway.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrRouteNotFound.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., VersionNotSupportedError). Each type
//     implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All custom error types must implement:
//
//	Error() string           - human-readable message
//	Unwrap() error           - if the type wraps another error
//	Is(target error) bool    - for errors.Is() compatibility
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	// ErrRouteNotFound indicates the pattern has no registered
	// bindings of any version.
	ErrRouteNotFound = errors.New("route not found")

	// ErrVersionNotSupported indicates the pattern exists but has no
	// binding for the negotiated version.
	ErrVersionNotSupported = errors.New("version not supported")

	// ErrMethodNotSupported indicates the pattern and version exist
	// but no binding matches the request method.
	ErrMethodNotSupported = errors.New("method not supported")

	// ErrInvalidScheme indicates an unknown versioning scheme was
	// requested at construction time.
	ErrInvalidScheme = errors.New("invalid versioning scheme")

	// ErrUnknownEndpoint indicates an endpoint identifier lookup for
	// an identifier that was never registered.
	ErrUnknownEndpoint = errors.New("unknown endpoint")

	// ErrConfigInvalid indicates an invalid configuration.
	ErrConfigInvalid = errors.New("invalid configuration")
)

// RouteNotFoundError reports a dispatch against a pattern with zero
// registered bindings.
type RouteNotFoundError struct {
	Pattern string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route registered for pattern %s", e.Pattern)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrRouteNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(pattern string) *RouteNotFoundError {
	return &RouteNotFoundError{Pattern: pattern}
}

// VersionNotSupportedError reports a dispatch against a registered
// pattern that carries no binding for the negotiated version.
type VersionNotSupportedError struct {
	Pattern string
	Version string
}

// Error implements the error interface.
func (e *VersionNotSupportedError) Error() string {
	return fmt.Sprintf("version %s is not supported for pattern %s", e.Version, e.Pattern)
}

// Is checks if the error matches the target.
func (e *VersionNotSupportedError) Is(target error) bool {
	if target == ErrVersionNotSupported {
		return true
	}
	_, ok := target.(*VersionNotSupportedError)
	return ok
}

// NewVersionNotSupportedError creates a new VersionNotSupportedError.
func NewVersionNotSupportedError(pattern, version string) *VersionNotSupportedError {
	return &VersionNotSupportedError{Pattern: pattern, Version: version}
}

// MethodNotSupportedError reports a dispatch where the (pattern,
// version) group exists but neither the request method nor an ANY
// binding is registered.
type MethodNotSupportedError struct {
	Pattern string
	Version string
	Method  string
}

// Error implements the error interface.
func (e *MethodNotSupportedError) Error() string {
	return fmt.Sprintf("method %s is not supported for pattern %s version %s",
		e.Method, e.Pattern, e.Version)
}

// Is checks if the error matches the target.
func (e *MethodNotSupportedError) Is(target error) bool {
	if target == ErrMethodNotSupported {
		return true
	}
	_, ok := target.(*MethodNotSupportedError)
	return ok
}

// NewMethodNotSupportedError creates a new MethodNotSupportedError.
func NewMethodNotSupportedError(pattern, version, method string) *MethodNotSupportedError {
	return &MethodNotSupportedError{Pattern: pattern, Version: version, Method: method}
}

// InvalidVersioningSchemeError reports construction with a versioning
// scheme outside the supported set. It is fatal to setup.
type InvalidVersioningSchemeError struct {
	Scheme string
}

// Error implements the error interface.
func (e *InvalidVersioningSchemeError) Error() string {
	return fmt.Sprintf("invalid versioning scheme: %s", e.Scheme)
}

// Is checks if the error matches the target.
func (e *InvalidVersioningSchemeError) Is(target error) bool {
	if target == ErrInvalidScheme {
		return true
	}
	_, ok := target.(*InvalidVersioningSchemeError)
	return ok
}

// NewInvalidVersioningSchemeError creates a new InvalidVersioningSchemeError.
func NewInvalidVersioningSchemeError(scheme string) *InvalidVersioningSchemeError {
	return &InvalidVersioningSchemeError{Scheme: scheme}
}

// UnknownEndpointError reports a lookup of an endpoint identifier that
// is not present in the registry.
type UnknownEndpointError struct {
	Endpoint string
}

// Error implements the error interface.
func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("unknown endpoint: %s", e.Endpoint)
}

// Is checks if the error matches the target.
func (e *UnknownEndpointError) Is(target error) bool {
	if target == ErrUnknownEndpoint {
		return true
	}
	_, ok := target.(*UnknownEndpointError)
	return ok
}

// NewUnknownEndpointError creates a new UnknownEndpointError.
func NewUnknownEndpointError(endpoint string) *UnknownEndpointError {
	return &UnknownEndpointError{Endpoint: endpoint}
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}
