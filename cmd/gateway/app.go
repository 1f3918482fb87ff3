package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vyrodovalexey/versionator/internal/config"
	"github.com/vyrodovalexey/versionator/internal/gateway"
	"github.com/vyrodovalexey/versionator/internal/middleware"
	"github.com/vyrodovalexey/versionator/internal/observability"
	"github.com/vyrodovalexey/versionator/internal/proxy"
	"github.com/vyrodovalexey/versionator/internal/router"
	apiversion "github.com/vyrodovalexey/versionator/internal/version"
)

// application holds all application components.
type application struct {
	gateway *gateway.Gateway
	metrics *observability.Metrics
	tracer  *observability.Tracer
	config  *config.GatewayConfig
}

// initApplication initializes all application components.
func initApplication(cfg *config.GatewayConfig, logger observability.Logger) *application {
	metrics := observability.NewMetrics("versionator")
	metrics.SetBuildInfo(version, gitCommit)
	tracer := initTracer(cfg, logger)

	negotiator, err := newNegotiator(cfg.Spec.Versioning)
	if err != nil {
		logger.Fatal("failed to create version negotiator", observability.Error(err))
	}

	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build routes", observability.Error(err))
	}

	gw, err := gateway.New(cfg, registry, negotiator,
		gateway.WithGatewayLogger(logger),
		gateway.WithGatewayMetrics(metrics),
		gateway.WithMiddleware(buildMiddlewareChain(cfg, logger, tracer)...),
		gateway.WithShutdownTimeout(30*time.Second),
	)
	if err != nil {
		logger.Fatal("failed to create gateway", observability.Error(err))
	}

	return &application{
		gateway: gw,
		metrics: metrics,
		tracer:  tracer,
		config:  cfg,
	}
}

// newNegotiator builds the version negotiator from configuration.
func newNegotiator(cfg config.Versioning) (apiversion.Negotiator, error) {
	switch cfg.Scheme {
	case config.SchemePath:
		return apiversion.New(apiversion.SchemePath)
	default:
		var opts []apiversion.Option
		if cfg.Header != "" {
			opts = append(opts, apiversion.WithHeader(cfg.Header))
		}
		return apiversion.New(apiversion.SchemeHeader, opts...)
	}
}

// buildRegistry populates a fresh registry from configured routes,
// registering one reverse-proxy handler per route.
func buildRegistry(cfg *config.GatewayConfig, logger observability.Logger) (*router.Registry, error) {
	registry := router.NewRegistry(router.WithLogger(logger))

	byVersion := make(map[string][]router.RouteDef)
	for _, route := range cfg.Spec.Routes {
		handler, err := proxy.New(route.Upstream.URL, route.Upstream.Timeout.Duration(),
			proxy.WithProxyLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", route.Pattern, err)
		}

		var upstream http.Handler = handler
		if cb := cfg.Spec.CircuitBreaker; cb != nil && cb.Enabled {
			upstream = middleware.CircuitBreaker(cb, logger)(upstream)
		}

		routeVersion := route.Version
		if routeVersion == "" {
			routeVersion = cfg.Spec.Versioning.DefaultVersion
		}

		byVersion[routeVersion] = append(byVersion[routeVersion], router.RouteDef{
			Pattern:  route.Pattern,
			Endpoint: route.Endpoint,
			Handler:  upstream,
			Methods:  route.Methods,
		})
	}

	if err := registry.RegisterVersions(byVersion); err != nil {
		return nil, err
	}
	return registry, nil
}

// initTracer initializes the tracer.
func initTracer(cfg *config.GatewayConfig, logger observability.Logger) *observability.Tracer {
	tracerCfg := observability.TracerConfig{
		ServiceName:  "versionator",
		Enabled:      false,
		SamplingRate: 1.0,
	}

	if cfg.Spec.Observability != nil && cfg.Spec.Observability.Tracing != nil {
		tracing := cfg.Spec.Observability.Tracing
		tracerCfg.Enabled = tracing.Enabled
		tracerCfg.OTLPEndpoint = tracing.OTLPEndpoint
		if tracing.SamplingRate > 0 {
			tracerCfg.SamplingRate = tracing.SamplingRate
		}
		if tracing.ServiceName != "" {
			tracerCfg.ServiceName = tracing.ServiceName
		}
	}

	tracer, err := observability.NewTracer(tracerCfg)
	if err != nil {
		logger.Fatal("failed to initialize tracer", observability.Error(err))
	}

	return tracer
}

// buildMiddlewareChain builds the middleware applied around dispatch,
// outermost first.
func buildMiddlewareChain(
	cfg *config.GatewayConfig,
	logger observability.Logger,
	tracer *observability.Tracer,
) []gateway.Middleware {
	chain := []gateway.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		observability.TracingMiddleware(tracer),
	}

	if rl := cfg.Spec.RateLimit; rl != nil && rl.Enabled {
		chain = append(chain, middleware.RateLimitFromConfig(rl, logger))
	}

	return chain
}

// startMetricsServerIfEnabled starts the metrics server if enabled.
func startMetricsServerIfEnabled(app *application, logger observability.Logger) {
	obs := app.config.Spec.Observability
	if obs == nil || obs.Metrics == nil || !obs.Metrics.Enabled {
		return
	}

	metricsPath := obs.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	metricsPort := obs.Metrics.Port
	if metricsPort == 0 {
		metricsPort = 9090
	}

	go startMetricsServer(metricsPort, metricsPath, app, logger)
}

// startMetricsServer starts the metrics HTTP server.
func startMetricsServer(port int, path string, app *application, logger observability.Logger) {
	mux := http.NewServeMux()
	mux.Handle(path, app.metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if app.gateway.IsRunning() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"stopped"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	logger.Info("starting metrics server",
		observability.String("address", addr),
		observability.String("metrics_path", path),
	)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", observability.Error(err))
	}
}
