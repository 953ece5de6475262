package analytics

import "ihsan/internal/donation"

// Tracked metric names for period comparisons. The set is fixed so dashboard
// delta tables stay stable across releases.
const (
	MetricTotalDonations   = "total_donations"
	MetricTotalAmount      = "total_amount"
	MetricAvgDonation      = "avg_donation"
	MetricRamadanDonations = "ramadan_donations"
	MetricRamadanAmount    = "ramadan_amount"
)

// Delta is the absolute and percentage change of one metric from period A to
// period B. Percentage is relative to period A and 0 when A's value is 0.
type Delta struct {
	Absolute   float64 `json:"absolute"`
	Percentage float64 `json:"percentage"`
}

// PeriodKPIs is a labeled KPI block within a comparison.
type PeriodKPIs struct {
	Label string `json:"label"`
	KPIs  KPIs   `json:"kpis"`
}

// Comparison is the structural comparison between two record subsets.
type Comparison struct {
	PeriodA PeriodKPIs       `json:"period_a"`
	PeriodB PeriodKPIs       `json:"period_b"`
	Changes map[string]Delta `json:"changes"`
}

// ComparePeriods computes KPIs for both subsets and the per-metric deltas for
// the tracked metrics. Either subset may be empty.
func ComparePeriods(a, b []donation.Enriched, labelA, labelB string) Comparison {
	kpisA := CalculateKPIs(a)
	kpisB := CalculateKPIs(b)

	tracked := map[string][2]float64{
		MetricTotalDonations:   {float64(kpisA.TotalDonations), float64(kpisB.TotalDonations)},
		MetricTotalAmount:      {kpisA.TotalAmount, kpisB.TotalAmount},
		MetricAvgDonation:      {kpisA.AvgDonation, kpisB.AvgDonation},
		MetricRamadanDonations: {float64(kpisA.RamadanDonations), float64(kpisB.RamadanDonations)},
		MetricRamadanAmount:    {kpisA.RamadanAmount, kpisB.RamadanAmount},
	}

	changes := make(map[string]Delta, len(tracked))
	for name, vals := range tracked {
		changes[name] = Delta{
			Absolute:   vals[1] - vals[0],
			Percentage: percentChange(vals[0], vals[1]),
		}
	}

	return Comparison{
		PeriodA: PeriodKPIs{Label: labelA, KPIs: kpisA},
		PeriodB: PeriodKPIs{Label: labelB, KPIs: kpisB},
		Changes: changes,
	}
}
