package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/versionator/internal/config"
	"github.com/vyrodovalexey/versionator/internal/observability"
	"github.com/vyrodovalexey/versionator/internal/router"
	"github.com/vyrodovalexey/versionator/internal/version"
)

// ginModeOnce ensures gin.SetMode is only called once to avoid race
// conditions.
var ginModeOnce sync.Once

// State represents the gateway state.
type State int32

const (
	// StateStopped indicates the gateway is stopped.
	StateStopped State = iota
	// StateStarting indicates the gateway is starting.
	StateStarting
	// StateRunning indicates the gateway is running.
	StateRunning
	// StateStopping indicates the gateway is stopping.
	StateStopping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Middleware is an http.Handler decorator applied around dispatch.
type Middleware func(http.Handler) http.Handler

// Gateway serves a populated route registry over HTTP. Version
// negotiation runs before pattern matching so the path scheme can strip
// the version segment; the per-pattern dispatchers then resolve and
// invoke handlers. The registry is immutable under traffic; Reload
// swaps in a freshly built engine over a new registry.
type Gateway struct {
	config          *config.GatewayConfig
	logger          observability.Logger
	metrics         *observability.Metrics
	negotiator      version.Negotiator
	middlewares     []Middleware
	engine          atomic.Pointer[gin.Engine]
	handler         http.Handler
	listeners       []*Listener
	state           atomic.Int32
	startTime       time.Time
	shutdownTimeout time.Duration
	mu              sync.RWMutex
}

// Option is a functional option for configuring the gateway.
type Option func(*Gateway)

// WithGatewayLogger sets the logger for the gateway.
func WithGatewayLogger(logger observability.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithGatewayMetrics enables dispatch metrics.
func WithGatewayMetrics(metrics *observability.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = metrics
	}
}

// WithMiddleware appends middleware applied around the dispatch core,
// outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return func(g *Gateway) {
		g.middlewares = append(g.middlewares, mw...)
	}
}

// WithShutdownTimeout sets the shutdown timeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.shutdownTimeout = timeout
	}
}

// New creates a gateway over a populated registry and a negotiator.
func New(cfg *config.GatewayConfig, reg *router.Registry, neg version.Negotiator, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if neg == nil {
		return nil, ErrNilNegotiator
	}

	g := &Gateway{
		config:          cfg,
		logger:          observability.NopLogger(),
		negotiator:      neg,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(g)
	}

	if err := g.installRegistry(reg); err != nil {
		return nil, err
	}

	core := http.HandlerFunc(g.serveCore)
	g.handler = chain(core, g.middlewares)

	g.state.Store(int32(StateStopped))

	return g, nil
}

// chain wraps a handler with middleware, first entry outermost.
func chain(h http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// installRegistry builds a gin engine with one dispatch route per
// registered pattern and publishes it.
func (g *Gateway) installRegistry(reg *router.Registry) error {
	dispatcher, err := NewDispatcher(reg, g.negotiator,
		WithDispatcherLogger(g.logger),
		WithDispatcherMetrics(g.metrics),
	)
	if err != nil {
		return err
	}

	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	engine := gin.New()
	engine.Use(gin.Recovery())

	view := reg.View()
	for _, pattern := range reg.Patterns() {
		engine.Any(pattern, gin.WrapH(dispatcher.HandlerFor(pattern)))

		if g.metrics != nil {
			count := 0
			for _, methods := range view[pattern] {
				count += len(methods)
			}
			g.metrics.SetBindings(pattern, count)
		}
	}

	engine.NoRoute(func(c *gin.Context) {
		g.logger.WithContext(c.Request.Context()).Info("no route registered",
			observability.String("path", c.Request.URL.Path),
			observability.String("method", c.Request.Method),
		)
		writeError(c.Writer, http.StatusNotFound, "no route matched the request")
	})

	g.engine.Store(engine)
	return nil
}

// ServeHTTP implements http.Handler with the full middleware chain.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.handler.ServeHTTP(w, r)
}

// serveCore negotiates the version, normalizes the path for the path
// scheme, and hands the request to the current engine for pattern
// matching.
func (g *Gateway) serveCore(w http.ResponseWriter, r *http.Request) {
	res := g.negotiator.Negotiate(r)

	r = r.Clone(version.ContextWithResult(r.Context(), res))
	r.URL.Path = res.Path

	g.engine.Load().ServeHTTP(w, r)
}

// Start starts the gateway listeners.
func (g *Gateway) Start(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateStopped), int32(StateStarting)) {
		return ErrGatewayNotStopped
	}

	g.logger.Info("starting gateway",
		observability.String("name", g.config.Metadata.Name),
		observability.String("scheme", string(g.negotiator.Scheme())),
	)

	g.listeners = make([]*Listener, 0, len(g.config.Spec.Listeners))
	for _, listenerCfg := range g.config.Spec.Listeners {
		listener, err := NewListener(listenerCfg, g, WithListenerLogger(g.logger))
		if err != nil {
			g.state.Store(int32(StateStopped))
			return fmt.Errorf("failed to create listener %s: %w", listenerCfg.Name, err)
		}
		g.listeners = append(g.listeners, listener)
	}

	for _, listener := range g.listeners {
		if err := listener.Start(ctx); err != nil {
			g.stopListeners(ctx)
			g.state.Store(int32(StateStopped))
			return fmt.Errorf("failed to start listener %s: %w", listener.Name(), err)
		}
	}

	g.startTime = time.Now()
	g.state.Store(int32(StateRunning))

	g.logger.Info("gateway started",
		observability.String("name", g.config.Metadata.Name),
		observability.Int("listeners", len(g.listeners)),
	)

	return nil
}

// Stop stops the gateway gracefully.
func (g *Gateway) Stop(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return ErrGatewayNotRunning
	}

	g.logger.Info("stopping gateway",
		observability.String("name", g.config.Metadata.Name),
	)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.shutdownTimeout)
		defer cancel()
	}

	g.stopListeners(ctx)
	g.state.Store(int32(StateStopped))

	g.logger.Info("gateway stopped",
		observability.String("name", g.config.Metadata.Name),
	)

	return nil
}

// Reload swaps in a freshly populated registry. In-flight requests
// keep resolving against the engine they entered with.
func (g *Gateway) Reload(reg *router.Registry) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reg == nil {
		return ErrNilRegistry
	}

	g.logger.Info("reloading routes",
		observability.Int("patterns", len(reg.Patterns())),
	)

	return g.installRegistry(reg)
}

// State returns the current gateway state.
func (g *Gateway) State() State {
	return State(g.state.Load())
}

// IsRunning returns true if the gateway is running.
func (g *Gateway) IsRunning() bool {
	return g.State() == StateRunning
}

// Uptime returns the gateway uptime.
func (g *Gateway) Uptime() time.Duration {
	if g.startTime.IsZero() {
		return 0
	}
	return time.Since(g.startTime)
}

// Config returns the gateway configuration.
func (g *Gateway) Config() *config.GatewayConfig {
	return g.config
}

// stopListeners stops all listeners concurrently.
func (g *Gateway) stopListeners(ctx context.Context) {
	var wg sync.WaitGroup
	for _, listener := range g.listeners {
		wg.Add(1)
		go func(l *Listener) {
			defer wg.Done()
			if err := l.Stop(ctx); err != nil {
				g.logger.Error("failed to stop listener",
					observability.String("name", l.Name()),
					observability.Error(err),
				)
			}
		}(listener)
	}
	wg.Wait()
}
