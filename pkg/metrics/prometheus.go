// Package metrics provides Prometheus metrics for rig analysis runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000}

// Manager manages all Prometheus metrics of an analysis.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Input
	framesLoaded    prometheus.Counter
	framesMalformed prometheus.Counter

	// Queue and workers
	jobsEnqueued  prometheus.Counter
	jobsProcessed prometheus.Counter
	jobErrors     prometheus.Counter
	queueSize     prometheus.Gauge
	workerCount   prometheus.Gauge
	jobLatency    prometheus.Histogram

	// Outcome
	verdicts         *prometheus.CounterVec
	insufficient     *prometheus.CounterVec
	reportPercentage prometheus.Gauge
	analysisDuration prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global registry and manager, applying opts on top of
// the defaults. It must run before any metric is recorded; a registry
// passed in opts is ignored.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(registry))
	globalManager = NewManager(opts...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rigdiag",
		subsystem:        "analysis",
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesLoaded = auto.NewCounter(m.counterOpts("frames_loaded_total", "Total number of frames read from session logs"))
	m.framesMalformed = auto.NewCounter(m.counterOpts("frames_malformed_total", "Total number of frames that could not be decoded"))

	m.jobsEnqueued = auto.NewCounter(m.counterOpts("jobs_enqueued_total", "Total number of channel jobs queued"))
	m.jobsProcessed = auto.NewCounter(m.counterOpts("jobs_processed_total", "Total number of channel jobs completed"))
	m.jobErrors = auto.NewCounter(m.counterOpts("job_errors_total", "Total number of channel jobs that failed"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued channel jobs"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Number of workers analyzing channels"))
	m.jobLatency = auto.NewHistogram(m.histogramOpts("job_latency_milliseconds", "Time spent analyzing one channel job"))

	m.verdicts = auto.NewCounterVec(
		m.counterOpts("verdicts_total", "Diagnoses by category and verdict"),
		[]string{"category", "verdict"},
	)
	m.insufficient = auto.NewCounterVec(
		m.counterOpts("insufficient_total", "Diagnoses without enough data, by category"),
		[]string{"category"},
	)
	m.reportPercentage = auto.NewGauge(m.gaugeOpts("report_percentage", "Overall score of the last report in percent"))
	m.analysisDuration = auto.NewHistogram(m.histogramOpts("analysis_duration_milliseconds", "Wall time of a full analysis"))
}

// RecordFramesLoaded counts loaded frames, malformed included.
func RecordFramesLoaded(n int) {
	globalManager.framesLoaded.Add(float64(n))
}

// RecordFramesMalformed counts frames skipped as malformed.
func RecordFramesMalformed(n int) {
	globalManager.framesMalformed.Add(float64(n))
}

func RecordJobEnqueued() {
	globalManager.jobsEnqueued.Inc()
}

func RecordJobProcessed() {
	globalManager.jobsProcessed.Inc()
}

func RecordJobError() {
	globalManager.jobErrors.Inc()
}

func RecordJobLatency(latencyMs float64) {
	globalManager.jobLatency.Observe(latencyMs)
}

func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordVerdict counts one diagnosis outcome.
func RecordVerdict(category, verdict string) {
	globalManager.verdicts.WithLabelValues(category, verdict).Inc()
}

// RecordInsufficient counts one diagnosis that lacked data.
func RecordInsufficient(category string) {
	globalManager.insufficient.WithLabelValues(category).Inc()
}

func UpdateReportPercentage(pct float64) {
	globalManager.reportPercentage.Set(pct)
}

func RecordAnalysisDuration(durationMs float64) {
	globalManager.analysisDuration.Observe(durationMs)
}

// GetRegistry returns the custom registry for exposing metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry in the text exposition format, suitable
// for the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
