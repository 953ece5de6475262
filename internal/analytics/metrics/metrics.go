// Package metrics holds the Prometheus metrics for the analytics API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the analytics query metrics.
type Metrics struct {
	Queries      *prometheus.CounterVec
	EmptyResults prometheus.Counter
}

// New creates and registers the analytics metrics.
func New() *Metrics {
	return &Metrics{
		Queries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ihsan_analytics_queries_total",
			Help: "Total number of analytics queries by endpoint",
		}, []string{"endpoint"}),
		EmptyResults: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_analytics_empty_results_total",
			Help: "Total number of analytics queries whose filter matched no records",
		}),
	}
}

// IncrementQueries increments the query counter for the given endpoint.
func (m *Metrics) IncrementQueries(endpoint string) {
	m.Queries.WithLabelValues(endpoint).Inc()
}

// IncrementEmptyResults increments the empty result counter by 1.
func (m *Metrics) IncrementEmptyResults() {
	m.EmptyResults.Inc()
}
