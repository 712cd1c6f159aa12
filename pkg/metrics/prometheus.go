// Package metrics provides Prometheus metrics for the playerscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace         string
	subsystem         string
	histogramBuckets  []float64
	resultSizeBuckets []float64
	constLabels       map[string]string
	registry          prometheus.Registerer

	// Dataset lifecycle
	datasetLoads       prometheus.Counter
	datasetLoadErrors  prometheus.Counter
	datasetLoadLatency prometheus.Histogram
	datasetRecords     prometheus.Gauge
	datasetDroppedRows prometheus.Counter
	datasetLastLoad    prometheus.Gauge

	// Load cache
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheErrors prometheus.Counter

	// Filter-and-rank queries
	queries            prometheus.Counter
	queryLatency       prometheus.Histogram
	queryResultSize    prometheus.Histogram
	configurationError *prometheus.CounterVec
	exports            *prometheus.CounterVec
	exportBytes        prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:         "playerscore",
		subsystem:         "dashboard",
		histogramBuckets:  prometheus.DefBuckets,
		resultSizeBuckets: prometheus.ExponentialBuckets(1, 4, 8),
		constLabels:       make(map[string]string),
		registry:          prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.datasetLoads = m.counter("dataset_loads_total", "Total number of successful dataset loads")
	m.datasetLoadErrors = m.counter("dataset_load_errors_total", "Total number of failed dataset loads")
	m.datasetLoadLatency = m.histogram("dataset_load_latency_milliseconds", "Dataset fetch and decode latency in milliseconds", m.histogramBuckets)
	m.datasetRecords = m.gauge("dataset_records", "Number of records in the active dataset")
	m.datasetDroppedRows = m.counter("dataset_dropped_rows_total", "Rows dropped at load because their contract date did not parse")
	m.datasetLastLoad = m.gauge("dataset_last_load_unix", "Unix time of the last successful dataset load")

	m.cacheHits = m.counter("cache_hits_total", "Dataset load cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Dataset load cache misses")
	m.cacheErrors = m.counter("cache_errors_total", "Dataset load cache backend errors")

	m.queries = m.counter("queries_total", "Total number of filter-and-rank queries")
	m.queryLatency = m.histogram("query_latency_milliseconds", "Filter-and-rank latency in milliseconds", m.histogramBuckets)
	m.queryResultSize = m.histogram("query_result_size", "Number of records returned by filter-and-rank", m.resultSizeBuckets)
	m.configurationError = m.counterVec("configuration_errors_total", "Rejected criteria by reason", "reason")
	m.exports = m.counterVec("exports_total", "Exports served by format", "format")
	m.exportBytes = m.histogram("export_bytes", "Size of encoded exports in bytes", prometheus.ExponentialBuckets(1024, 4, 8))

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// Dataset metrics.

// RecordDatasetLoad records a successful load with its latency and size.
func RecordDatasetLoad(latencyMs float64, records, dropped int, unix int64) {
	globalManager.datasetLoads.Inc()
	globalManager.datasetLoadLatency.Observe(latencyMs)
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetDroppedRows.Add(float64(dropped))
	globalManager.datasetLastLoad.Set(float64(unix))
}

// RecordDatasetLoadError increments the failed load counter.
func RecordDatasetLoadError() {
	globalManager.datasetLoadErrors.Inc()
}

// Cache metrics.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// RecordCacheError increments the cache error counter.
func RecordCacheError() { globalManager.cacheErrors.Inc() }

// Query metrics.

// RecordQuery records one filter-and-rank evaluation.
func RecordQuery(latencyMs float64, resultSize int) {
	globalManager.queries.Inc()
	globalManager.queryLatency.Observe(latencyMs)
	globalManager.queryResultSize.Observe(float64(resultSize))
}

// RecordConfigurationError counts criteria rejected as configuration errors.
func RecordConfigurationError(reason string) {
	globalManager.configurationError.WithLabelValues(reason).Inc()
}

// RecordExport counts an export in the given format.
func RecordExport(format string, size int) {
	globalManager.exports.WithLabelValues(format).Inc()
	globalManager.exportBytes.Observe(float64(size))
}

// HTTP metrics.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
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
