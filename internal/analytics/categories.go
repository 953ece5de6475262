package analytics

import (
	"sort"

	"ihsan/internal/donation"
)

// CategoryStat is the aggregate for one donation category. Percentage is the
// category's share of the total amount across all categories, not just the
// returned top-N.
type CategoryStat struct {
	Category     string  `json:"category"`
	TotalAmount  float64 `json:"total_amount"`
	AvgAmount    float64 `json:"avg_amount"`
	Count        int     `json:"count"`
	UniqueDonors int     `json:"unique_donors"`
	Percentage   float64 `json:"percentage"`
}

// CalculateCategoryStatistics aggregates by display category and returns the
// top n by total amount, descending. Ties break on category name.
func CalculateCategoryStatistics(records []donation.Enriched, n int) []CategoryStat {
	if len(records) == 0 || n <= 0 {
		return nil
	}

	type agg struct {
		total  float64
		count  int
		donors map[string]struct{}
	}
	byCategory := make(map[string]*agg)
	grandTotal := 0.0

	for _, r := range records {
		c := r.DisplayCategory()
		a, ok := byCategory[c]
		if !ok {
			a = &agg{donors: make(map[string]struct{})}
			byCategory[c] = a
		}
		a.total += r.Amount
		a.count++
		a.donors[r.DonorID] = struct{}{}
		grandTotal += r.Amount
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for c, a := range byCategory {
		stat := CategoryStat{
			Category:     c,
			TotalAmount:  a.total,
			AvgAmount:    a.total / float64(a.count),
			Count:        a.count,
			UniqueDonors: len(a.donors),
		}
		if grandTotal > 0 {
			stat.Percentage = a.total / grandTotal * 100
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount != out[j].TotalAmount {
			return out[i].TotalAmount > out[j].TotalAmount
		}
		return out[i].Category < out[j].Category
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
