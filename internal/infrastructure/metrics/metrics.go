// Package metrics exposes Prometheus metrics for the companion service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "graylogic_companion"

// Registry holds every companion metric on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	SummariesRenderedTotal *prometheus.CounterVec
	SummaryRenderDuration  *prometheus.HistogramVec

	MQTTMessagesTotal *prometheus.CounterVec

	CatalogNodes prometheus.Gauge
	Automations  prometheus.Gauge
}

// NewRegistry creates a registry with all metrics and the Go runtime
// and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.initHTTPMetrics()
	r.initSummaryMetrics()
	return r
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initSummaryMetrics() {
	r.SummariesRenderedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_rendered_total",
			Help:      "Total number of automation summaries rendered",
		},
		[]string{"source"}, // api, describe, mqtt, startup
	)

	r.SummaryRenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_render_duration_seconds",
			Help:      "Time to render one automation summary",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"source"},
	)

	r.MQTTMessagesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mqtt_messages_total",
			Help:      "Inbound MQTT messages by kind and result",
		},
		[]string{"kind", "result"}, // kind: node, automation; result: stored, deleted, rejected
	)

	r.CatalogNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_nodes",
			Help:      "Number of nodes in the catalog",
		},
	)

	r.Automations = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "automations",
			Help:      "Number of stored automations",
		},
	)
}

// Handler returns the HTTP handler serving the exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests and embedding.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordHTTPRequest records a finished HTTP request.
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRender records one rendered summary.
func (r *Registry) ObserveRender(source string, duration time.Duration) {
	r.SummariesRenderedTotal.WithLabelValues(source).Inc()
	r.SummaryRenderDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveMessage records one inbound MQTT message.
func (r *Registry) ObserveMessage(kind, result string) {
	r.MQTTMessagesTotal.WithLabelValues(kind, result).Inc()
}

// SetCounts updates the catalog and automation gauges.
func (r *Registry) SetCounts(nodes, automations int) {
	r.CatalogNodes.Set(float64(nodes))
	r.Automations.Set(float64(automations))
}
