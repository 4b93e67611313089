// Package metrics provides Prometheus metrics for the doping plot service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset
	fetchDuration    prometheus.Histogram
	fetchErrors      *prometheus.CounterVec
	recordsLoaded    prometheus.Gauge
	recordsMalformed *prometheus.CounterVec
	marksRendered    *prometheus.GaugeVec

	// Rendering
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	tooltipEvents  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dopingplot",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_fetch_duration_milliseconds",
		Help:      "Time spent fetching and decoding the dataset",
		Buckets:   m.histogramBuckets,
	})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_fetch_errors_total",
		Help:      "Dataset fetch failures by kind (transport, status, decode)",
	}, []string{"kind"})

	m.recordsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_loaded",
		Help:      "Number of records in the loaded dataset",
	})

	m.recordsMalformed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_malformed_total",
		Help:      "Records with an unusable time or year, by policy outcome",
	}, []string{"policy"})

	m.marksRendered = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "marks",
		Help:      "Marks in the current plot by doping category",
	}, []string{"doping"})

	m.renderDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_milliseconds",
		Help:      "Time spent serializing the plot by output format",
		Buckets:   m.histogramBuckets,
	}, []string{"format"})

	m.renderErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_errors_total",
		Help:      "Plot serialization failures by output format",
	}, []string{"format"})

	m.tooltipEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tooltip_events_total",
		Help:      "Tooltip state requests by pointer event",
	}, []string{"event"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "HTTP errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average GC pause in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Dataset Metrics Functions.

// RecordFetchDuration records how long the dataset fetch took.
func RecordFetchDuration(ms float64) {
	globalManager.fetchDuration.Observe(ms)
}

// RecordFetchError counts a fetch failure of the given kind.
func RecordFetchError(kind string) {
	globalManager.fetchErrors.WithLabelValues(kind).Inc()
}

// UpdateRecordsLoaded sets the dataset size.
func UpdateRecordsLoaded(n int) {
	globalManager.recordsLoaded.Set(float64(n))
}

// RecordMalformed counts malformed records handled under policy.
func RecordMalformed(policy string, n int) {
	globalManager.recordsMalformed.WithLabelValues(policy).Add(float64(n))
}

// UpdateMarks sets the per-category mark counts.
func UpdateMarks(doping, clean int) {
	globalManager.marksRendered.WithLabelValues("true").Set(float64(doping))
	globalManager.marksRendered.WithLabelValues("false").Set(float64(clean))
}

// Rendering Metrics Functions.

// RecordRenderDuration records serialization time for format.
func RecordRenderDuration(format string, ms float64) {
	globalManager.renderDuration.WithLabelValues(format).Observe(ms)
}

// RecordRenderError counts a serialization failure for format.
func RecordRenderError(format string) {
	globalManager.renderErrors.WithLabelValues(format).Inc()
}

// RecordTooltipEvent counts a tooltip request for event ("enter" or "leave").
func RecordTooltipEvent(event string) {
	globalManager.tooltipEvents.WithLabelValues(event).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
