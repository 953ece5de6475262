package analytics

import (
	"sort"

	"ihsan/internal/donation"
)

// EventStat is the aggregate for one Islamic calendar event window.
type EventStat struct {
	Event        string  `json:"event"`
	Count        int     `json:"count"`
	TotalAmount  float64 `json:"total_amount"`
	AvgAmount    float64 `json:"avg_amount"`
	UniqueDonors int     `json:"unique_donors"`
}

// CalculateEventStatistics aggregates records by tagged event, skipping
// records outside any event window. Results sort by total amount descending,
// ties on event name.
func CalculateEventStatistics(records []donation.Enriched) []EventStat {
	type agg struct {
		total  float64
		count  int
		donors map[string]struct{}
	}
	byEvent := make(map[string]*agg)

	for _, r := range records {
		if r.Event == "" {
			continue
		}
		e := string(r.Event)
		a, ok := byEvent[e]
		if !ok {
			a = &agg{donors: make(map[string]struct{})}
			byEvent[e] = a
		}
		a.total += r.Amount
		a.count++
		a.donors[r.DonorID] = struct{}{}
	}
	if len(byEvent) == 0 {
		return nil
	}

	out := make([]EventStat, 0, len(byEvent))
	for e, a := range byEvent {
		out = append(out, EventStat{
			Event:        e,
			Count:        a.count,
			TotalAmount:  a.total,
			AvgAmount:    a.total / float64(a.count),
			UniqueDonors: len(a.donors),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount != out[j].TotalAmount {
			return out[i].TotalAmount > out[j].TotalAmount
		}
		return out[i].Event < out[j].Event
	})
	return out
}
