package analytics

import (
	"sort"

	"ihsan/internal/donation"
)

// DonorStatistics summarizes giving behavior per donor.
type DonorStatistics struct {
	TotalDonors             int     `json:"total_donors"`
	RepeatDonors            int     `json:"repeat_donors"`
	OneTimeDonors           int     `json:"one_time_donors"`
	AvgDonationsPerDonor    float64 `json:"avg_donations_per_donor"`
	MedianDonationsPerDonor float64 `json:"median_donations_per_donor"`
	TopDonorAmount          float64 `json:"top_donor_amount"`
	TopDonorCount           int     `json:"top_donor_count"`
}

// DonorSummary is one donor's aggregate, used for top-donor listings.
type DonorSummary struct {
	DonorID       string  `json:"donor_id"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int     `json:"donation_count"`
	AvgAmount     float64 `json:"avg_amount"`
}

// CalculateDonorStatistics groups records by donor id. Empty input yields the
// zero statistics.
func CalculateDonorStatistics(records []donation.Enriched) DonorStatistics {
	if len(records) == 0 {
		return DonorStatistics{}
	}

	byDonor := groupByDonor(records)

	stats := DonorStatistics{TotalDonors: len(byDonor)}
	counts := make([]float64, 0, len(byDonor))
	for _, d := range byDonor {
		counts = append(counts, float64(d.DonationCount))
		if d.DonationCount > 1 {
			stats.RepeatDonors++
		} else {
			stats.OneTimeDonors++
		}
		if d.TotalAmount > stats.TopDonorAmount {
			stats.TopDonorAmount = d.TotalAmount
		}
		if d.DonationCount > stats.TopDonorCount {
			stats.TopDonorCount = d.DonationCount
		}
	}
	stats.AvgDonationsPerDonor = mean(counts)
	stats.MedianDonationsPerDonor = median(counts)
	return stats
}

// TopDonors returns the n donors with the highest total amount, descending.
// Ties break on donor id for deterministic output.
func TopDonors(records []donation.Enriched, n int) []DonorSummary {
	if len(records) == 0 || n <= 0 {
		return nil
	}

	byDonor := groupByDonor(records)
	out := make([]DonorSummary, 0, len(byDonor))
	for _, d := range byDonor {
		d.AvgAmount = d.TotalAmount / float64(d.DonationCount)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount != out[j].TotalAmount {
			return out[i].TotalAmount > out[j].TotalAmount
		}
		return out[i].DonorID < out[j].DonorID
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

func groupByDonor(records []donation.Enriched) map[string]DonorSummary {
	byDonor := make(map[string]DonorSummary)
	for _, r := range records {
		d := byDonor[r.DonorID]
		d.DonorID = r.DonorID
		d.TotalAmount += r.Amount
		d.DonationCount++
		byDonor[r.DonorID] = d
	}
	return byDonor
}
