package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ihsan/internal/donation"
)

func donorFixture() []donation.Enriched {
	return []donation.Enriched{
		record("d1", "2024-01-01", 100, "Zakat"),
		record("d1", "2024-01-02", 200, "Zakat"),
		record("d1", "2024-01-03", 300, "Zakat"),
		record("d2", "2024-01-04", 50, "Sadaqah"),
		record("d3", "2024-01-05", 700, "Zakat"),
	}
}

func TestCalculateDonorStatistics(t *testing.T) {
	stats := CalculateDonorStatistics(donorFixture())

	assert.Equal(t, 3, stats.TotalDonors)
	assert.Equal(t, 1, stats.RepeatDonors)
	assert.Equal(t, 2, stats.OneTimeDonors)
	assert.InDelta(t, 5.0/3.0, stats.AvgDonationsPerDonor, 1e-9)
	assert.Equal(t, 1.0, stats.MedianDonationsPerDonor)
	assert.Equal(t, 700.0, stats.TopDonorAmount)
	assert.Equal(t, 3, stats.TopDonorCount)
}

func TestCalculateDonorStatistics_Empty(t *testing.T) {
	assert.Equal(t, DonorStatistics{}, CalculateDonorStatistics(nil))
}

func TestTopDonors(t *testing.T) {
	top := TopDonors(donorFixture(), 2)

	require.Len(t, top, 2)
	assert.Equal(t, "d3", top[0].DonorID)
	assert.Equal(t, 700.0, top[0].TotalAmount)
	assert.Equal(t, "d1", top[1].DonorID)
	assert.Equal(t, 600.0, top[1].TotalAmount)
	assert.Equal(t, 3, top[1].DonationCount)
	assert.Equal(t, 200.0, top[1].AvgAmount)
}

func TestTopDonors_LimitLargerThanDonors(t *testing.T) {
	top := TopDonors(donorFixture(), 10)

	assert.Len(t, top, 3)
}

func TestTopDonors_Empty(t *testing.T) {
	assert.Nil(t, TopDonors(nil, 5))
	assert.Nil(t, TopDonors(donorFixture(), 0))
}
