package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ihsan/internal/donation"
	dErrors "ihsan/pkg/domain-errors"
)

func serviceFixture() *Service {
	return NewService(donation.Dataset{
		Records: []donation.Enriched{
			record("d1", "2024-01-10", 100, "Zakat"),
			record("d1", "2024-02-10", 200, "Sadaqah"),
			record("d2", "2024-03-10", 300, "Zakat"),
			ramadanRecord("d3", "2024-03-15", 400, "Zakat"),
		},
		Enriched: true,
	})
}

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return &parsed
}

func TestServiceSummary(t *testing.T) {
	summary := serviceFixture().Summary(context.Background())

	assert.Equal(t, 4, summary.TotalRecords)
	assert.Equal(t, "2024-01-10", summary.DateFrom)
	assert.Equal(t, "2024-03-15", summary.DateTo)
	assert.Equal(t, []string{"Sadaqah", "Zakat"}, summary.Categories)
	assert.False(t, summary.Degraded)
}

func TestServiceKPIs_DateFilter(t *testing.T) {
	svc := serviceFixture()

	kpis := svc.KPIs(context.Background(), Filter{
		From: day(t, "2024-03-01"),
		To:   day(t, "2024-03-31"),
	})

	assert.Equal(t, 2, kpis.TotalDonations)
	assert.Equal(t, 700.0, kpis.TotalAmount)
}

func TestServiceKPIs_CategoryFilter(t *testing.T) {
	svc := serviceFixture()

	kpis := svc.KPIs(context.Background(), Filter{Categories: []string{"Sadaqah"}})

	assert.Equal(t, 1, kpis.TotalDonations)
	assert.Equal(t, 200.0, kpis.TotalAmount)
}

func TestServiceGrowth_RejectsUnknownGranularity(t *testing.T) {
	svc := serviceFixture()

	_, err := svc.Growth(context.Background(), Filter{}, Granularity("week"))

	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestServiceGrowth(t *testing.T) {
	svc := serviceFixture()

	result, err := svc.Growth(context.Background(), Filter{}, GranularityMonth)

	require.NoError(t, err)
	assert.Equal(t, GranularityMonth, result.Granularity)
	// February sum 200, March sum 700.
	assert.Equal(t, 250.0, result.Rate)
}

func TestServiceReplace(t *testing.T) {
	svc := serviceFixture()
	assert.False(t, svc.Degraded())

	svc.Replace(donation.Dataset{
		Records:  []donation.Enriched{record("d9", "2020-05-01", 50, "Iftar")},
		Enriched: false,
	})

	assert.True(t, svc.Degraded())
	summary := svc.Summary(context.Background())
	assert.Equal(t, 1, summary.TotalRecords)
	assert.True(t, summary.Degraded)
}

func TestServiceCompare(t *testing.T) {
	svc := serviceFixture()

	cmp := svc.Compare(context.Background(),
		Filter{From: day(t, "2024-01-01"), To: day(t, "2024-01-31")},
		Filter{From: day(t, "2024-03-01"), To: day(t, "2024-03-31")},
		"January", "March",
	)

	assert.Equal(t, 100.0, cmp.PeriodA.KPIs.TotalAmount)
	assert.Equal(t, 700.0, cmp.PeriodB.KPIs.TotalAmount)
	assert.Equal(t, 600.0, cmp.Changes[MetricTotalAmount].Percentage)
}
