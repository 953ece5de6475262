// Package metrics holds the HTTP-level Prometheus metrics shared by all API
// handlers. Feature packages register their own counters separately.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the request-level Prometheus metrics for the API.
type Metrics struct {
	RequestsTotal  *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ihsan_http_requests_total",
			Help: "Total number of HTTP requests by path and status code",
		}, []string{"path", "status"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ihsan_http_request_duration_seconds",
			Help:    "HTTP request latency by path",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(path, status string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(path, status).Inc()
	m.RequestLatency.WithLabelValues(path).Observe(elapsed.Seconds())
}
