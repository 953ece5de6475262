package analytics

import (
	"sort"

	"ihsan/internal/donation"
)

// TimeStatistics summarizes donation activity over calendar time. Day keys
// are YYYY-MM-DD strings; ties resolve to the earliest day and the first
// month/weekday name alphabetically, keeping output deterministic.
type TimeStatistics struct {
	BusiestDay        string  `json:"busiest_day"`
	HighestAmountDay  string  `json:"highest_amount_day"`
	AvgDailyAmount    float64 `json:"avg_daily_amount"`
	AvgDailyDonations float64 `json:"avg_daily_donations"`
	BusiestMonth      string  `json:"busiest_month"`
	BusiestWeekday    string  `json:"busiest_weekday"`
}

// CalculateTimeStatistics computes time-based aggregates. Empty input yields
// the zero statistics.
func CalculateTimeStatistics(records []donation.Enriched) TimeStatistics {
	if len(records) == 0 {
		return TimeStatistics{}
	}

	dayCounts := make(map[string]int)
	dayAmounts := make(map[string]float64)
	monthCounts := make(map[string]int)
	weekdayCounts := make(map[string]int)

	for _, r := range records {
		day := r.Time.DateOnly
		dayCounts[day]++
		dayAmounts[day] += r.Amount
		monthCounts[r.Time.MonthName]++
		weekdayCounts[r.Time.Weekday]++
	}

	dailyTotals := make([]float64, 0, len(dayAmounts))
	for _, amount := range dayAmounts {
		dailyTotals = append(dailyTotals, amount)
	}

	return TimeStatistics{
		BusiestDay:        maxCountKey(dayCounts),
		HighestAmountDay:  maxAmountKey(dayAmounts),
		AvgDailyAmount:    mean(dailyTotals),
		AvgDailyDonations: float64(len(records)) / float64(len(dayCounts)),
		BusiestMonth:      maxCountKey(monthCounts),
		BusiestWeekday:    maxCountKey(weekdayCounts),
	}
}

func maxCountKey(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestCount := -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

func maxAmountKey(amounts map[string]float64) string {
	keys := make([]string, 0, len(amounts))
	for k := range amounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestAmount := -1.0
	for _, k := range keys {
		if amounts[k] > bestAmount {
			best, bestAmount = k, amounts[k]
		}
	}
	return best
}
