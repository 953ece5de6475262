package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	RemoteCalls    prometheus.Counter
	RemoteFailures prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_translate_cache_hits_total",
			Help: "Total number of category translations served from the cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_translate_cache_misses_total",
			Help: "Total number of category lookups that missed the cache",
		}),
		RemoteCalls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_translate_remote_calls_total",
			Help: "Total number of calls made to the remote translation service",
		}),
		RemoteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_translate_remote_failures_total",
			Help: "Total number of remote translation calls that failed",
		}),
	}
}

func (m *Metrics) IncrementCacheHits() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMisses() {
	m.CacheMisses.Inc()
}

func (m *Metrics) IncrementRemoteCalls() {
	m.RemoteCalls.Inc()
}

func (m *Metrics) IncrementRemoteFailures() {
	m.RemoteFailures.Inc()
}
