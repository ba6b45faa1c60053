// Package metrics exposes rulekit's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. Each instance owns its registry so tests
// can build isolated copies.
type Metrics struct {
	registry *prometheus.Registry

	RegistryLoads      *prometheus.CounterVec
	RegistryComponents prometheus.Gauge
	ResourceFailures   prometheus.Counter
	ResolverFetches    *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New builds and registers every collector, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RegistryLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rulekit_registry_loads_total",
				Help: "Descriptor source fetches by outcome",
			},
			[]string{"result"},
		),
		RegistryComponents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rulekit_registry_components",
				Help: "Descriptors in the cached component set",
			},
		),
		ResourceFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rulekit_ui_resource_failures_total",
				Help: "Descriptors annotated with a UI resource load error",
			},
		),
		ResolverFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rulekit_resolver_fetches_total",
				Help: "Rule chain fetches during reference resolution by outcome",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rulekit_http_requests_total",
				Help: "API requests served",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rulekit_http_request_duration_seconds",
				Help:    "API request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RegistryLoads,
		m.RegistryComponents,
		m.ResourceFailures,
		m.ResolverFetches,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Result label values.
const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultPlaceholder = "placeholder"
)

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware counts requests and observes latency by matched route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &codeRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type codeRecorder struct {
	http.ResponseWriter
	code int
}

func (r *codeRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *codeRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
