package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ihsan/internal/donation"
)

func TestCalculateKPIs_Empty(t *testing.T) {
	kpis := CalculateKPIs(nil)

	assert.Equal(t, KPIs{}, kpis)
}

func TestCalculateKPIs(t *testing.T) {
	records := []donation.Enriched{
		record("d1", "2024-01-10", 100, "Zakat"),
		record("d1", "2024-02-10", 200, "Sadaqah"),
		record("d2", "2024-02-15", 300, "Zakat"),
		ramadanRecord("d3", "2024-03-15", 400, "Zakat"),
	}

	kpis := CalculateKPIs(records)

	assert.Equal(t, 4, kpis.TotalDonations)
	assert.Equal(t, 1000.0, kpis.TotalAmount)
	assert.Equal(t, 250.0, kpis.AvgDonation)
	assert.Equal(t, 250.0, kpis.MedianDonation)
	assert.Equal(t, 400.0, kpis.MaxDonation)
	assert.Equal(t, 100.0, kpis.MinDonation)
	assert.Equal(t, 3, kpis.UniqueDonors)
	assert.Equal(t, 2, kpis.UniqueCategories)
	assert.Equal(t, 1, kpis.RamadanDonations)
	assert.Equal(t, 400.0, kpis.RamadanAmount)
	assert.Equal(t, 25.0, kpis.RamadanPercentage)
	assert.Equal(t, 400.0, kpis.RamadanAvg)
	assert.Equal(t, 200.0, kpis.NonRamadanAvg)
}

func TestCalculateKPIs_UsesTranslatedCategory(t *testing.T) {
	zakat := record("d1", "2024-01-10", 100, "زكاة")
	zakat.CategoryEN = "Zakat"
	alsoZakat := record("d2", "2024-01-11", 100, "Zakat")

	kpis := CalculateKPIs([]donation.Enriched{zakat, alsoZakat})

	assert.Equal(t, 1, kpis.UniqueCategories)
}
