package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcome label values. Bounded set so metric cardinality
// stays proportional to the number of registered routes.
const (
	OutcomeOK                  = "ok"
	OutcomeRouteNotFound       = "route_not_found"
	OutcomeVersionNotSupported = "version_not_supported"
	OutcomeMethodNotSupported  = "method_not_supported"
	OutcomeInternalError       = "internal_error"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	bindingsGauge    *prometheus.GaugeVec
	wildcardTotal    prometheus.Counter
	buildInfo        *prometheus.GaugeVec
	startTime        prometheus.Gauge
	registry         *prometheus.Registry
}

// NewMetrics creates a new Metrics instance backed by its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "versionator"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Total number of dispatch attempts by outcome",
		},
		[]string{"pattern", "version", "method", "outcome"},
	)

	m.dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Dispatch duration in seconds, handler included",
			Buckets: []float64{
				.001, .005, .01, .025, .05,
				.1, .25, .5, 1, 2.5, 5, 10,
			},
		},
		[]string{"pattern", "version", "method", "outcome"},
	)

	m.bindingsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_bindings",
			Help:      "Number of registered handler bindings per pattern",
		},
		[]string{"pattern"},
	)

	m.wildcardTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wildcard_negotiations_total",
			Help:      "Requests negotiated to the wildcard version",
		},
	)

	m.buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "commit"},
	)

	m.startTime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "start_time_seconds",
			Help:      "Unix timestamp of process start",
		},
	)
	m.startTime.SetToCurrentTime()

	m.registry.MustRegister(
		m.dispatchTotal,
		m.dispatchDuration,
		m.bindingsGauge,
		m.wildcardTotal,
		m.buildInfo,
		m.startTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveDispatch records one dispatch attempt.
func (m *Metrics) ObserveDispatch(pattern, version, method, outcome string, duration time.Duration) {
	m.dispatchTotal.WithLabelValues(pattern, version, method, outcome).Inc()
	m.dispatchDuration.WithLabelValues(pattern, version, method, outcome).
		Observe(duration.Seconds())
}

// SetBindings records the number of bindings registered for a pattern.
func (m *Metrics) SetBindings(pattern string, count int) {
	m.bindingsGauge.WithLabelValues(pattern).Set(float64(count))
}

// IncWildcardNegotiation counts a request that negotiated the wildcard
// version.
func (m *Metrics) IncWildcardNegotiation() {
	m.wildcardTotal.Inc()
}

// SetBuildInfo records build information.
func (m *Metrics) SetBuildInfo(version, commit string) {
	m.buildInfo.WithLabelValues(version, commit).Set(1)
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
