// Package metrics holds the Prometheus metrics for pipeline runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline run metrics.
type Metrics struct {
	RunsTotal        prometheus.Counter
	RunsFailed       prometheus.Counter
	RecordsProcessed prometheus.Counter
	RecordsDropped   *prometheus.CounterVec
	RunDuration      prometheus.Histogram
}

// New creates and registers the pipeline metrics.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_pipeline_runs_total",
			Help: "Total number of pipeline runs started",
		}),
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_pipeline_runs_failed_total",
			Help: "Total number of pipeline runs that ended in an error",
		}),
		RecordsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_pipeline_records_processed_total",
			Help: "Total number of records written to the enriched dataset",
		}),
		RecordsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ihsan_pipeline_records_dropped_total",
			Help: "Total number of records dropped during cleaning by reason",
		}, []string{"reason"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ihsan_pipeline_run_duration_seconds",
			Help:    "Wall-clock duration of pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// IncrementRunsTotal increments the started-runs counter by 1.
func (m *Metrics) IncrementRunsTotal() {
	m.RunsTotal.Inc()
}

// IncrementRunsFailed increments the failed-runs counter by 1.
func (m *Metrics) IncrementRunsFailed() {
	m.RunsFailed.Inc()
}

// AddRecordsProcessed adds n to the processed-records counter.
func (m *Metrics) AddRecordsProcessed(n int) {
	m.RecordsProcessed.Add(float64(n))
}

// AddRecordsDropped adds n to the dropped-records counter for the reason.
func (m *Metrics) AddRecordsDropped(reason string, n int) {
	m.RecordsDropped.WithLabelValues(reason).Add(float64(n))
}

// ObserveRunDuration records one run's duration in seconds.
func (m *Metrics) ObserveRunDuration(seconds float64) {
	m.RunDuration.Observe(seconds)
}
