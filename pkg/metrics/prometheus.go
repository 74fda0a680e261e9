// Package metrics provides Prometheus metrics for the insight engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the insight engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Ingestion metrics - event intake per domain (fraud, budget)
	eventsAppended   *prometheus.CounterVec
	eventsDuplicate  prometheus.Counter
	validationErrors prometheus.Counter

	// Persistence metrics - the fire-and-forget writer
	persistWrites        prometheus.Counter
	persistErrors        prometheus.Counter
	persistDropped       prometheus.Counter
	persistQueueDepth    prometheus.Gauge
	persistWriteDuration prometheus.Histogram

	// Profile metrics - rebuild cadence and cost
	profileRefreshes       *prometheus.CounterVec
	profileRefreshDuration prometheus.Histogram
	profileEventCount      *prometheus.GaugeVec

	// Scoring metrics
	scoresComputed  prometheus.Counter
	anomaliesRaised prometheus.Counter
	anomalyScore    prometheus.Histogram
	fraudReports    prometheus.Counter

	// Forecast metrics
	recommendationsServed  prometheus.Counter
	recommendationColdHits prometheus.Counter
	forecastConfidence     prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "insight",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.eventsAppended = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_appended_total",
		Help:      "Total events accepted into the history, labeled by domain.",
	}, []string{"domain"})

	m.eventsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Total submissions rejected as duplicates by event ID.",
	})

	m.validationErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_errors_total",
		Help:      "Total events rejected for malformed amount or timestamp.",
	})

	m.persistWrites = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_writes_total",
		Help:      "Total successful history writes to durable storage.",
	})

	m.persistErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_errors_total",
		Help:      "Total failed history writes; failures are logged, never propagated.",
	})

	m.persistDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_dropped_total",
		Help:      "Total save requests dropped because the writer queue was full.",
	})

	m.persistQueueDepth = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_queue_depth",
		Help:      "Pending save requests in the background writer queue.",
	})

	m.persistWriteDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_write_duration_ms",
		Help:      "Durable write latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.profileRefreshes = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_refreshes_total",
		Help:      "Total profile rebuilds, labeled by domain.",
	}, []string{"domain"})

	m.profileRefreshDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_refresh_duration_ms",
		Help:      "Profile rebuild latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.profileEventCount = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_event_count",
		Help:      "Number of events behind the most recent profile, labeled by domain.",
	}, []string{"domain"})

	m.scoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_computed_total",
		Help:      "Total anomaly scores computed.",
	})

	m.anomaliesRaised = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "anomalies_raised_total",
		Help:      "Total scores that crossed the anomaly threshold.",
	})

	m.anomalyScore = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "anomaly_score",
		Help:      "Distribution of computed anomaly scores (0-100).",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	m.fraudReports = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fraud_reports_total",
		Help:      "Total user fraud reports recorded via the feedback hook.",
	})

	m.recommendationsServed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Total budget recommendations generated.",
	})

	m.recommendationColdHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_cold_start_total",
		Help:      "Recommendations served via the sparse-history cold-start path.",
	})

	m.forecastConfidence = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "forecast_confidence",
		Help:      "Confidence score of the most recent recommendation (0-100).",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests, labeled by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level helpers delegating to the global manager.

// RecordEventAppended counts an accepted event for a domain ("fraud" or "budget").
func RecordEventAppended(domain string) {
	globalManager.eventsAppended.WithLabelValues(domain).Inc()
}

// RecordEventDuplicate counts a duplicate submission.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordValidationError counts a rejected malformed event.
func RecordValidationError() {
	globalManager.validationErrors.Inc()
}

// RecordPersistWrite counts a successful durable write.
func RecordPersistWrite() {
	globalManager.persistWrites.Inc()
}

// RecordPersistError counts a failed durable write.
func RecordPersistError() {
	globalManager.persistErrors.Inc()
}

// RecordPersistDropped counts a save request dropped on writer backpressure.
func RecordPersistDropped() {
	globalManager.persistDropped.Inc()
}

// UpdatePersistQueueDepth sets the pending save request gauge.
func UpdatePersistQueueDepth(depth int) {
	globalManager.persistQueueDepth.Set(float64(depth))
}

// RecordPersistWriteDuration observes a durable write latency.
func RecordPersistWriteDuration(latencyMs float64) {
	globalManager.persistWriteDuration.Observe(latencyMs)
}

// RecordProfileRefresh counts a profile rebuild for a domain.
func RecordProfileRefresh(domain string) {
	globalManager.profileRefreshes.WithLabelValues(domain).Inc()
}

// RecordProfileRefreshDuration observes a profile rebuild latency.
func RecordProfileRefreshDuration(latencyMs float64) {
	globalManager.profileRefreshDuration.Observe(latencyMs)
}

// UpdateProfileEventCount sets the event count behind the latest profile.
func UpdateProfileEventCount(domain string, count int) {
	globalManager.profileEventCount.WithLabelValues(domain).Set(float64(count))
}

// RecordScoreComputed observes a computed anomaly score.
func RecordScoreComputed(score float64, anomaly bool) {
	globalManager.scoresComputed.Inc()
	globalManager.anomalyScore.Observe(score)
	if anomaly {
		globalManager.anomaliesRaised.Inc()
	}
}

// RecordFraudReport counts a user feedback report.
func RecordFraudReport() {
	globalManager.fraudReports.Inc()
}

// RecordRecommendation observes a generated recommendation.
func RecordRecommendation(confidence float64, coldStart bool) {
	globalManager.recommendationsServed.Inc()
	globalManager.forecastConfidence.Set(confidence)
	if coldStart {
		globalManager.recommendationColdHits.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
