// Package gateway wires the route registry, version negotiation, and
// dispatch into an HTTP serving surface.
package gateway

import "errors"

// Sentinel errors for gateway operations.
var (
	// ErrGatewayNotStopped indicates that the gateway is not in
	// stopped state when a start operation is attempted.
	ErrGatewayNotStopped = errors.New("gateway is not in stopped state")

	// ErrGatewayNotRunning indicates that the gateway is not
	// running when a stop operation is attempted.
	ErrGatewayNotRunning = errors.New("gateway is not running")

	// ErrNilConfig indicates that a nil configuration was provided.
	ErrNilConfig = errors.New("configuration is required")

	// ErrNilRegistry indicates that a nil route registry was provided.
	ErrNilRegistry = errors.New("route registry is required")

	// ErrNilNegotiator indicates that a nil negotiator was provided.
	ErrNilNegotiator = errors.New("version negotiator is required")
)
