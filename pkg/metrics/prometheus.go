// Package metrics provides Prometheus metrics for the debut game service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Score histogram buckets span the clamped judge range.
var scoreBuckets = []float64{40, 50, 60, 70, 80, 90, 95, 100} //nolint:gochecknoglobals // fixed bucket layout

// Manager owns every Prometheus collector for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Game progress
	submissions    *prometheus.CounterVec
	overallScore   *prometheus.HistogramVec
	storyProgress  prometheus.Gauge
	careersStarted *prometheus.CounterVec

	// Local state persistence
	stateSaves       prometheus.Counter
	stateSaveErrors  prometheus.Counter
	stateLoads       *prometheus.CounterVec
	stateSaveLatency prometheus.Histogram

	// Media store
	mediaSaved  *prometheus.CounterVec
	mediaBytes  *prometheus.CounterVec
	mediaErrors *prometheus.CounterVec

	// Remote profile service
	remoteCalls  *prometheus.CounterVec
	remoteErrors *prometheus.CounterVec

	// Remote sync outbox
	syncQueueDepth    prometheus.Gauge
	syncQueueCapacity prometheus.Gauge
	syncEnqueued      *prometheus.CounterVec
	syncDropped       *prometheus.CounterVec
	syncProcessed     *prometheus.CounterVec
	syncLatency       prometheus.Histogram
	syncWorkers       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Process
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
	systemGCPause    prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "debut",
		subsystem:        "game",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Performances submitted, by type and difficulty",
	}, []string{"performance_type", "difficulty"})

	m.overallScore = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overall_score",
		Help:      "Distribution of overall judge scores",
		Buckets:   scoreBuckets,
	}, []string{"difficulty"})

	m.storyProgress = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "story_progress",
		Help:      "Current story progress of the loaded career",
	})

	m.careersStarted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "careers_started_total",
		Help:      "New careers started, by path",
	}, []string{"career_path"})

	m.stateSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_saves_total",
		Help:      "Full game-state records written",
	})

	m.stateSaveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_save_errors_total",
		Help:      "Game-state writes that failed and were dropped",
	})

	m.stateLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_loads_total",
		Help:      "Game-state loads by outcome (found, absent, corrupt, version_mismatch, error)",
	}, []string{"outcome"})

	m.stateSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_save_latency_milliseconds",
		Help:      "Latency of full-record state saves in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.mediaSaved = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "media_saved_total",
		Help:      "Media blobs stored, by kind",
	}, []string{"kind"})

	m.mediaBytes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "media_bytes_total",
		Help:      "Bytes of media stored, by kind",
	}, []string{"kind"})

	m.mediaErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "media_errors_total",
		Help:      "Media store operations that failed, by operation",
	}, []string{"operation"})

	m.remoteCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "remote_calls_total",
		Help:      "Calls to the remote profile service, by operation",
	}, []string{"operation"})

	m.remoteErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "remote_errors_total",
		Help:      "Failed calls to the remote profile service, by operation",
	}, []string{"operation"})

	m.syncQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "sync",
		Name:      "queue_depth",
		Help:      "Remote sync tasks waiting in the outbox",
	})

	m.syncQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "sync",
		Name:      "queue_capacity",
		Help:      "Maximum number of queued remote sync tasks",
	})

	m.syncEnqueued = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sync",
		Name:      "enqueued_total",
		Help:      "Remote sync tasks accepted by the outbox, by operation",
	}, []string{"operation"})

	m.syncDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sync",
		Name:      "dropped_total",
		Help:      "Remote sync tasks refused by the outbox, by reason (full, closed, invalid, canceled)",
	}, []string{"reason"})

	m.syncProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sync",
		Name:      "processed_total",
		Help:      "Remote sync tasks handled by workers, by operation and outcome",
	}, []string{"operation", "outcome"})

	m.syncLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "sync",
		Name:      "task_latency_milliseconds",
		Help:      "Time from enqueue to completion of a remote sync task in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.syncWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "sync",
		Name:      "workers",
		Help:      "Running remote sync workers",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemory = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_alloc_bytes",
		Help:      "Heap bytes allocated and still in use",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of live goroutines",
	})

	m.systemGCPause = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_avg_milliseconds",
		Help:      "Average GC pause since process start in milliseconds",
	})
}

// RecordSubmission counts one submitted performance.
func RecordSubmission(performanceType, difficulty string) {
	globalManager.submissions.WithLabelValues(performanceType, difficulty).Inc()
}

// ObserveOverallScore records a judged overall score.
func ObserveOverallScore(difficulty string, score int) {
	globalManager.overallScore.WithLabelValues(difficulty).Observe(float64(score))
}

// UpdateStoryProgress sets the story progress gauge.
func UpdateStoryProgress(progress int) {
	globalManager.storyProgress.Set(float64(progress))
}

// RecordCareerStarted counts a new career.
func RecordCareerStarted(path string) {
	globalManager.careersStarted.WithLabelValues(path).Inc()
}

// RecordStateSave counts a successful state write and its latency.
func RecordStateSave(latencyMs float64) {
	globalManager.stateSaves.Inc()
	globalManager.stateSaveLatency.Observe(latencyMs)
}

// RecordStateSaveError counts a dropped state write.
func RecordStateSaveError() {
	globalManager.stateSaveErrors.Inc()
}

// RecordStateLoad counts a load by outcome.
func RecordStateLoad(outcome string) {
	globalManager.stateLoads.WithLabelValues(outcome).Inc()
}

// RecordMediaSaved counts a stored blob and its size.
func RecordMediaSaved(kind string, bytes int) {
	globalManager.mediaSaved.WithLabelValues(kind).Inc()
	globalManager.mediaBytes.WithLabelValues(kind).Add(float64(bytes))
}

// RecordMediaError counts a failed media operation.
func RecordMediaError(operation string) {
	globalManager.mediaErrors.WithLabelValues(operation).Inc()
}

// RecordRemoteCall counts a remote call and, when failed, the failure.
func RecordRemoteCall(operation string, failed bool) {
	globalManager.remoteCalls.WithLabelValues(operation).Inc()
	if failed {
		globalManager.remoteErrors.WithLabelValues(operation).Inc()
	}
}

// UpdateSyncQueue sets the outbox depth and capacity gauges.
func UpdateSyncQueue(depth, capacity int) {
	globalManager.syncQueueDepth.Set(float64(depth))
	globalManager.syncQueueCapacity.Set(float64(capacity))
}

// RecordSyncEnqueued counts a task accepted by the outbox.
func RecordSyncEnqueued(operation string) {
	globalManager.syncEnqueued.WithLabelValues(operation).Inc()
}

// RecordSyncDropped counts a task the outbox refused.
func RecordSyncDropped(reason string) {
	globalManager.syncDropped.WithLabelValues(reason).Inc()
}

// RecordSyncProcessed counts a handled task and its end-to-end latency.
func RecordSyncProcessed(operation string, failed bool, latencyMs float64) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	globalManager.syncProcessed.WithLabelValues(operation, outcome).Inc()
	globalManager.syncLatency.Observe(latencyMs)
}

// UpdateSyncWorkers sets the running worker gauge.
func UpdateSyncWorkers(n int) {
	globalManager.syncWorkers.Set(float64(n))
}

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

// UpdateSystemMemoryUsage sets the in-use heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemory.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutines.Set(float64(n))
}

// RecordSystemGCPauseTime sets the average GC pause gauge.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPause.Set(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
