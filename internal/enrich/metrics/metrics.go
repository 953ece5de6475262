package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RecordsEnriched    prometheus.Counter
	ConversionFailures prometheus.Counter
	RamadanRecords     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RecordsEnriched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_enrich_records_total",
			Help: "Total number of donation records enriched",
		}),
		ConversionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_enrich_conversion_failures_total",
			Help: "Total number of records whose Hijri conversion failed",
		}),
		RamadanRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ihsan_enrich_ramadan_records_total",
			Help: "Total number of enriched records falling in Ramadan",
		}),
	}
}

func (m *Metrics) IncrementRecordsEnriched(n int) {
	m.RecordsEnriched.Add(float64(n))
}

func (m *Metrics) IncrementConversionFailures() {
	m.ConversionFailures.Inc()
}

func (m *Metrics) IncrementRamadanRecords() {
	m.RamadanRecords.Inc()
}
