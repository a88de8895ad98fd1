package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors one service process exposes at /metrics.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	registry    *prometheus.Registry
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	uploads     *prometheus.CounterVec
}

func NewMetrics(service string) *Metrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gamehub_api_requests_total",
			Help:        "Total API requests by method/route/status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "gamehub_api_request_duration_seconds",
			Help:        "API request latency in seconds by method/route/status.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "gamehub_api_inflight_requests",
			Help:        "In-flight API requests.",
			ConstLabels: constLabels,
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gamehub_asset_uploads_total",
			Help:        "Asset uploads by scope and outcome.",
			ConstLabels: constLabels,
		}, []string{"scope", "outcome"}),
	}
	reg.MustRegister(
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.uploads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

// ObserveUpload counts one upload attempt; outcome is "ok" or the HTTP
// status class of the failure.
func (m *Metrics) ObserveUpload(scope, outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(scope, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
