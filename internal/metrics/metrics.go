package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors on a private registry.
type Metrics struct {
	HTTPRequestsTotal         *prometheus.CounterVec
	HTTPRequestDurationSecond *prometheus.HistogramVec

	ToastsPublishedTotal *prometheus.CounterVec

	DashboardLoadsTotal      *prometheus.CounterVec
	EventLogsAggregatedTotal prometheus.Counter
	EventLogsIngestedTotal   *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_dashboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSecond: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clinic_dashboard_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ToastsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_dashboard_toasts_published_total",
				Help: "Total number of toast notifications published",
			},
			[]string{"type"},
		),
		DashboardLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_dashboard_event_loads_total",
				Help: "Event-log loads by result",
			},
			[]string{"result"},
		),
		EventLogsAggregatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "clinic_dashboard_event_logs_aggregated_total",
				Help: "Event-log records fed into the aggregation routine",
			},
		),
		EventLogsIngestedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_dashboard_event_logs_ingested_total",
				Help: "Ingested event-log records by outcome",
			},
			[]string{"outcome"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSecond,
		m.ToastsPublishedTotal,
		m.DashboardLoadsTotal,
		m.EventLogsAggregatedTotal,
		m.EventLogsIngestedTotal,
	)
	return m
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and latency. The route template is
// used as the path label to keep cardinality bounded.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDurationSecond.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
