// Package metrics provides Prometheus metrics for the possession and RAPM pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultFitBuckets spans sub-second single-season fits to multi-season windows.
var defaultFitBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300} //nolint:gochecknoglobals // bucket table

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	fitBuckets     []float64
	customLabels   map[string]string
	metricPrefix   string
	registry       prometheus.Registerer

	// Segmentation
	gamesProcessed     prometheus.Counter
	gamesFailed        *prometheus.CounterVec
	eventsScanned      prometheus.Counter
	possessionsEmitted prometheus.Counter
	gameLatency        prometheus.Histogram

	// Classification quality
	unknownEventCodes prometheus.Counter
	windowFallbacks   *prometheus.CounterVec
	unresolvedOffense prometheus.Counter
	scoringAnomalies  prometheus.Counter
	trailingEvents    prometheus.Counter
	duplicateGames    prometheus.Counter

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter

	// Workers
	workerActiveCount prometheus.Gauge
	workerErrors      prometheus.Counter

	// Estimation
	fitDuration    prometheus.Histogram
	fitFailures    *prometheus.CounterVec
	selectedLambda prometheus.Gauge
	designRows     prometheus.Gauge
	designColumns  prometheus.Gauge
	filteredRows   prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "rapm",
		subsystem:      "pipeline",
		latencyBuckets: prometheus.ExponentialBuckets(1, 2, 14),
		fitBuckets:     defaultFitBuckets,
		customLabels:   make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.gamesProcessed = m.counter("games_processed_total", "Total number of games segmented into possessions")
	m.gamesFailed = m.counterVec("games_failed_total", "Total number of games that failed, by stage", "stage")
	m.eventsScanned = m.counter("events_scanned_total", "Total number of play-by-play events scanned by the segmenter")
	m.possessionsEmitted = m.counter("possessions_emitted_total", "Total number of possessions emitted")
	m.gameLatency = m.histogram("game_latency_milliseconds", "Per-game processing latency in milliseconds", m.latencyBuckets)

	m.unknownEventCodes = m.counter("unknown_event_codes_total", "Events whose type code is outside the known set")
	m.windowFallbacks = m.counterVec("window_fallbacks_total", "Windowed lookups that fell back to the furthest event", "lookup")
	m.unresolvedOffense = m.counter("unresolved_offense_total", "Possessions whose offense rule named neither team")
	m.scoringAnomalies = m.counter("scoring_anomalies_total", "Possessions in which both teams scored")
	m.trailingEvents = m.counter("trailing_events_total", "Events after the last possession boundary of a game")
	m.duplicateGames = m.counter("duplicate_games_total", "Duplicate game ids dropped from schedules")

	m.queueSize = m.gauge("queue_size", "Current number of queued game jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum game job queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of game jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of game jobs dequeued")

	m.workerActiveCount = m.gauge("worker_active_count", "Number of running game workers")
	m.workerErrors = m.counter("worker_errors_total", "Total number of game jobs that returned an error")

	m.fitDuration = m.histogram("fit_duration_seconds", "Ridge fit duration in seconds", m.fitBuckets)
	m.fitFailures = m.counterVec("fit_failures_total", "Failed ridge fits, by reason", "reason")
	m.selectedLambda = m.gauge("selected_lambda", "Lambda chosen by cross-validation in the latest fit")
	m.designRows = m.gauge("design_rows", "Rows in the latest design matrix")
	m.designColumns = m.gauge("design_columns", "Columns in the latest design matrix")
	m.filteredRows = m.counter("filtered_rows_total", "Stint rows dropped because they carried no possessions")
}

// RecordGameProcessed increments the processed games counter.
func RecordGameProcessed() {
	globalManager.gamesProcessed.Inc()
}

// RecordGameFailed counts a failed game by pipeline stage (load, segment, aggregate, store, timeout).
func RecordGameFailed(stage string) {
	globalManager.gamesFailed.WithLabelValues(stage).Inc()
}

// RecordEventsScanned adds n scanned events.
func RecordEventsScanned(n int) {
	globalManager.eventsScanned.Add(float64(n))
}

// RecordPossessionsEmitted adds n emitted possessions.
func RecordPossessionsEmitted(n int) {
	globalManager.possessionsEmitted.Add(float64(n))
}

// RecordGameLatency records per-game latency in milliseconds.
func RecordGameLatency(latencyMs float64) {
	globalManager.gameLatency.Observe(latencyMs)
}

// RecordUnknownEventCode increments the unknown event code counter.
func RecordUnknownEventCode() {
	globalManager.unknownEventCodes.Inc()
}

// RecordWindowFallback counts a windowed lookup that found no match.
func RecordWindowFallback(lookup string) {
	globalManager.windowFallbacks.WithLabelValues(lookup).Inc()
}

// RecordUnresolvedOffense increments the unresolved offense counter.
func RecordUnresolvedOffense() {
	globalManager.unresolvedOffense.Inc()
}

// RecordScoringAnomaly increments the scoring anomaly counter.
func RecordScoringAnomaly() {
	globalManager.scoringAnomalies.Inc()
}

// RecordTrailingEvents adds n events left after the last boundary.
func RecordTrailingEvents(n int) {
	globalManager.trailingEvents.Add(float64(n))
}

// RecordDuplicateGame increments the duplicate game counter.
func RecordDuplicateGame() {
	globalManager.duplicateGames.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordFitDuration records a ridge fit duration.
func RecordFitDuration(d time.Duration) {
	globalManager.fitDuration.Observe(d.Seconds())
}

// RecordFitFailure counts a failed fit by reason.
func RecordFitFailure(reason string) {
	globalManager.fitFailures.WithLabelValues(reason).Inc()
}

// UpdateSelectedLambda sets the lambda chosen by the latest fit.
func UpdateSelectedLambda(lambda float64) {
	globalManager.selectedLambda.Set(lambda)
}

// UpdateDesignShape sets the shape of the latest design matrix.
func UpdateDesignShape(rows, cols int) {
	globalManager.designRows.Set(float64(rows))
	globalManager.designColumns.Set(float64(cols))
}

// RecordFilteredRows adds n rows dropped before design construction.
func RecordFilteredRows(n int) {
	globalManager.filteredRows.Add(float64(n))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
