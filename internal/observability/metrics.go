package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/league-forecast/internal/platform/resilience"
)

// Metrics owns the service's Prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	circuitState     *prometheus.GaugeVec
	fallbacks        *prometheus.CounterVec
	staleDiscards    *prometheus.CounterVec
	archivedPayloads *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

type MetricsOption func(*Metrics)

func WithNamespace(namespace string) MetricsOption {
	return func(m *Metrics) { m.namespace = namespace }
}

func WithSubsystem(subsystem string) MetricsOption {
	return func(m *Metrics) { m.subsystem = subsystem }
}

func WithBuckets(buckets []float64) MetricsOption {
	return func(m *Metrics) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) MetricsOption {
	return func(m *Metrics) {
		if reg != nil {
			m.registry = reg
		}
	}
}

func NewMetrics(opts ...MetricsOption) *Metrics {
	m := &Metrics{
		namespace: "league_forecast",
		subsystem: "bff",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	auto := promauto.With(m.registry)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Prediction service requests by resource and outcome",
	}, []string{"resource", "outcome"})

	m.upstreamDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_duration_seconds",
		Help:      "Prediction service request latency",
		Buckets:   m.buckets,
	}, []string{"resource"})

	m.circuitState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "circuit_state",
		Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open",
	}, []string{"breaker"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fallbacks_total",
		Help:      "Responses served from a fallback instead of the prediction service",
	}, []string{"resource", "reason"})

	m.staleDiscards = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_results_discarded_total",
		Help:      "Fetch results dropped because a newer selection superseded them",
	}, []string{"resource"})

	m.archivedPayloads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "raw_payloads_archived_total",
		Help:      "Upstream payloads written to the raw archive",
	}, []string{"outcome"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "View sessions currently held in memory",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   m.buckets,
	}, []string{"route", "method"})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveUpstream(resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(resource, outcome).Inc()
	m.upstreamDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

func (m *Metrics) SetCircuitState(name string, state resilience.CircuitState) {
	if m == nil {
		return
	}
	value := 0.0
	switch state {
	case resilience.CircuitStateHalfOpen:
		value = 1
	case resilience.CircuitStateOpen:
		value = 2
	}
	m.circuitState.WithLabelValues(name).Set(value)
}

func (m *Metrics) RecordFallback(resource, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(resource, reason).Inc()
}

func (m *Metrics) RecordStaleDiscard(resource string) {
	if m == nil {
		return
	}
	m.staleDiscards.WithLabelValues(resource).Inc()
}

func (m *Metrics) RecordArchived(outcome string) {
	if m == nil {
		return
	}
	m.archivedPayloads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
