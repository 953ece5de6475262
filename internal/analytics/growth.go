package analytics

import (
	"sort"

	"ihsan/internal/donation"
)

// Granularity selects the calendar period for growth grouping.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// CalculateGrowthRate groups amounts by calendar period and returns the
// percentage change between the last two periods present. Fewer than two
// periods, an unknown granularity, or a zero prior-period sum all yield 0.
func CalculateGrowthRate(records []donation.Enriched, g Granularity) float64 {
	if len(records) < 2 {
		return 0
	}

	var keyOf func(r donation.Enriched) string
	switch g {
	case GranularityMonth:
		keyOf = func(r donation.Enriched) string { return r.Date.Format("2006-01") }
	case GranularityYear:
		keyOf = func(r donation.Enriched) string { return r.Date.Format("2006") }
	default:
		return 0
	}

	sums := make(map[string]float64)
	for _, r := range records {
		sums[keyOf(r)] += r.Amount
	}
	if len(sums) < 2 {
		return 0
	}

	// Period keys are zero-padded, so lexicographic order is chronological.
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	previous := sums[keys[len(keys)-2]]
	current := sums[keys[len(keys)-1]]
	return percentChange(previous, current)
}
