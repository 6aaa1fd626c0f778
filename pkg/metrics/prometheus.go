// Package metrics provides Prometheus metrics for the weight search engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enumeration modes used as label values.
const (
	ModeBulk      = "bulk"
	ModeGenerator = "generator"
	ModeLegacy    = "legacy"
)

// Manager owns every collector exported by the search engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Enumeration
	vectorsEnumerated *prometheus.CounterVec

	// Evaluation
	candidatesEvaluated *prometheus.CounterVec
	batchesProcessed    prometheus.Counter
	batchLatency        prometheus.Histogram
	bestCorrect         prometheus.Gauge
	bestAccuracy        prometheus.Gauge
	searchesTotal       *prometheus.CounterVec

	// Pipeline
	queueDepth    prometheus.Gauge
	queueCapacity prometheus.Gauge
	workersActive prometheus.Gauge

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "smartscore",
		subsystem:        "weightsearch",
		histogramBuckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.vectorsEnumerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vectors_enumerated_total",
		Help:      "Weight vectors produced by the lattice enumerators",
	}, []string{"mode"})

	m.candidatesEvaluated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_evaluated_total",
		Help:      "Candidate weight vectors scored and evaluated",
	}, []string{"evaluator"})

	m.batchesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_processed_total",
		Help:      "Candidate batches handled by the worker pool",
	})

	m.batchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_latency_milliseconds",
		Help:      "Time spent evaluating one candidate batch",
		Buckets:   m.histogramBuckets,
	})

	m.bestCorrect = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "best_correct",
		Help:      "Correct predictions of the best weight vector from the last search",
	})

	m.bestAccuracy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "best_accuracy_ratio",
		Help:      "Accuracy of the best weight vector from the last search",
	})

	m.searchesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "searches_total",
		Help:      "Completed searches by kind and outcome",
	}, []string{"kind", "outcome"})

	m.queueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_depth",
		Help:      "Candidate batches waiting in the work queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Capacity of the work queue in batches",
	})

	m.workersActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workers_active",
		Help:      "Workers currently draining the work queue",
	})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})
}

// RecordVectorsEnumerated adds n produced vectors for the given mode.
func (m *Manager) RecordVectorsEnumerated(mode string, n int) {
	m.vectorsEnumerated.WithLabelValues(mode).Add(float64(n))
}

// RecordCandidatesEvaluated adds n evaluated candidates for the given evaluator.
func (m *Manager) RecordCandidatesEvaluated(evaluator string, n int) {
	m.candidatesEvaluated.WithLabelValues(evaluator).Add(float64(n))
}

// RecordBatchProcessed records one processed batch and its latency.
func (m *Manager) RecordBatchProcessed(latencyMs float64) {
	m.batchesProcessed.Inc()
	m.batchLatency.Observe(latencyMs)
}

// UpdateBest publishes the best result of a search.
func (m *Manager) UpdateBest(correct int, accuracy float64) {
	m.bestCorrect.Set(float64(correct))
	m.bestAccuracy.Set(accuracy)
}

// RecordSearch counts a finished search.
func (m *Manager) RecordSearch(kind, outcome string) {
	m.searchesTotal.WithLabelValues(kind, outcome).Inc()
}

// UpdateQueueDepth sets the number of queued batches.
func (m *Manager) UpdateQueueDepth(depth int) { m.queueDepth.Set(float64(depth)) }

// UpdateQueueCapacity sets the queue capacity.
func (m *Manager) UpdateQueueCapacity(capacity int) { m.queueCapacity.Set(float64(capacity)) }

// AddWorkersActive adjusts the active worker gauge by delta.
func (m *Manager) AddWorkersActive(delta int) { m.workersActive.Add(float64(delta)) }

// RecordError counts an error for a component.
func (m *Manager) RecordError(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Package-level helpers delegate to the global manager.

func RecordVectorsEnumerated(mode string, n int) { globalManager.RecordVectorsEnumerated(mode, n) }

func RecordCandidatesEvaluated(evaluator string, n int) {
	globalManager.RecordCandidatesEvaluated(evaluator, n)
}

func RecordBatchProcessed(latencyMs float64) { globalManager.RecordBatchProcessed(latencyMs) }

func UpdateBest(correct int, accuracy float64) { globalManager.UpdateBest(correct, accuracy) }

func RecordSearch(kind, outcome string) { globalManager.RecordSearch(kind, outcome) }

func UpdateQueueDepth(depth int) { globalManager.UpdateQueueDepth(depth) }

func UpdateQueueCapacity(capacity int) { globalManager.UpdateQueueCapacity(capacity) }

func AddWorkersActive(delta int) { globalManager.AddWorkersActive(delta) }

func RecordError(component, errorType string) { globalManager.RecordError(component, errorType) }

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry { return customRegistry }
