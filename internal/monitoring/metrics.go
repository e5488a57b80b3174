// Package monitoring provides Prometheus metrics and the Gin middleware
// that records them, exposed on /metrics for desktop diagnostics.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Browsing metrics
	NavigationsTotal   *prometheus.CounterVec
	NavigationDuration *prometheus.HistogramVec
	TabsActive         prometheus.Gauge
	ManifestFetches    prometheus.Counter

	// File operation metrics
	FileOps       *prometheus.CounterVec
	FileOpsErrors *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WatchEvents   prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filewright_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filewright_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		NavigationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filewright_navigations_total",
				Help: "Pane navigations by listing source and outcome",
			},
			[]string{"source", "status"},
		),
		NavigationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filewright_navigation_duration_seconds",
				Help:    "Listing resolution duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"source"},
		),
		TabsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "filewright_tabs_active",
				Help: "Number of open tabs",
			},
		),
		ManifestFetches: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "filewright_archive_manifest_fetches_total",
				Help: "Archive manifest fetches (cache misses included)",
			},
		),

		FileOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filewright_file_operations_total",
				Help: "File operations by kind",
			},
			[]string{"op"},
		),
		FileOpsErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filewright_file_operation_errors_total",
				Help: "Failed file operations by kind",
			},
			[]string{"op"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "filewright_ws_connections",
				Help: "Active WebSocket connections",
			},
		),
		WatchEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "filewright_watch_events_total",
				Help: "Filesystem watch events broadcast to clients",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "filewright_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordNavigation records one navigation attempt.
func (m *Metrics) RecordNavigation(source, status string, duration time.Duration) {
	m.NavigationsTotal.WithLabelValues(source, status).Inc()
	m.NavigationDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordFileOp records a file operation outcome.
func (m *Metrics) RecordFileOp(op string, err error) {
	m.FileOps.WithLabelValues(op).Inc()
	if err != nil {
		m.FileOpsErrors.WithLabelValues(op).Inc()
	}
}
