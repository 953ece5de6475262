// Package analytics computes the dashboard's KPI sets and comparative
// statistics over enriched donation records. Every function tolerates empty
// input by returning zero-valued results; none of them panic, raise, or
// produce NaN/Inf.
package analytics

import "ihsan/internal/donation"

// KPIs is the key performance indicator set for one record subset.
type KPIs struct {
	TotalDonations    int     `json:"total_donations"`
	TotalAmount       float64 `json:"total_amount"`
	AvgDonation       float64 `json:"avg_donation"`
	MedianDonation    float64 `json:"median_donation"`
	StdDonation       float64 `json:"std_donation"`
	MaxDonation       float64 `json:"max_donation"`
	MinDonation       float64 `json:"min_donation"`
	UniqueDonors      int     `json:"unique_donors"`
	UniqueCategories  int     `json:"unique_categories"`
	RamadanDonations  int     `json:"ramadan_donations"`
	RamadanAmount     float64 `json:"ramadan_amount"`
	RamadanPercentage float64 `json:"ramadan_percentage"`
	RamadanAvg        float64 `json:"ramadan_avg"`
	NonRamadanAvg     float64 `json:"non_ramadan_avg"`
}

// CalculateKPIs computes the KPI set for the given records. An empty input is
// a valid input and yields the zero KPI set.
func CalculateKPIs(records []donation.Enriched) KPIs {
	if len(records) == 0 {
		return KPIs{}
	}

	amounts := make([]float64, 0, len(records))
	var ramadanAmounts, nonRamadanAmounts []float64
	donors := make(map[string]struct{})
	categories := make(map[string]struct{})

	maxAmount := records[0].Amount
	minAmount := records[0].Amount

	for _, r := range records {
		amounts = append(amounts, r.Amount)
		if r.Amount > maxAmount {
			maxAmount = r.Amount
		}
		if r.Amount < minAmount {
			minAmount = r.Amount
		}
		donors[r.DonorID] = struct{}{}
		if c := r.DisplayCategory(); c != "" {
			categories[c] = struct{}{}
		}
		if r.IsRamadan {
			ramadanAmounts = append(ramadanAmounts, r.Amount)
		} else {
			nonRamadanAmounts = append(nonRamadanAmounts, r.Amount)
		}
	}

	return KPIs{
		TotalDonations:    len(records),
		TotalAmount:       sum(amounts),
		AvgDonation:       mean(amounts),
		MedianDonation:    median(amounts),
		StdDonation:       stddev(amounts),
		MaxDonation:       maxAmount,
		MinDonation:       minAmount,
		UniqueDonors:      len(donors),
		UniqueCategories:  len(categories),
		RamadanDonations:  len(ramadanAmounts),
		RamadanAmount:     sum(ramadanAmounts),
		RamadanPercentage: float64(len(ramadanAmounts)) / float64(len(records)) * 100,
		RamadanAvg:        mean(ramadanAmounts),
		NonRamadanAvg:     mean(nonRamadanAmounts),
	}
}
