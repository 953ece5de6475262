package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ihsan/internal/donation"
	dErrors "ihsan/pkg/domain-errors"
)

const rawFixture = `id,donationdate,amount,donationtype
donor-1,2024-03-24 10:30:00,150,Zakat
donor-2,bad-date,200,Zakat
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderPrefersEnrichedFile(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeFile(t, dir, "raw.csv", rawFixture)

	date := time.Date(2024, 3, 24, 10, 30, 0, 0, time.UTC)
	enriched := []donation.Enriched{{
		Record: donation.Record{DonorID: "donor-1", Date: date, Amount: 150, Category: "Zakat"},
		Time:   donation.TimeDimensionsOf(date),
	}}
	enrichedPath := filepath.Join(dir, "enriched.csv")
	loader := NewLoader(rawPath, enrichedPath)
	require.NoError(t, loader.WriteEnrichedFile(enriched))

	ds, err := loader.Load()

	require.NoError(t, err)
	assert.True(t, ds.Enriched)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "donor-1", ds.Records[0].DonorID)
}

func TestLoaderFallsBackToRawFile(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeFile(t, dir, "raw.csv", rawFixture)
	loader := NewLoader(rawPath, filepath.Join(dir, "missing-enriched.csv"))

	ds, err := loader.Load()

	require.NoError(t, err)
	assert.False(t, ds.Enriched)
	// The bad-date row is dropped during parsing.
	require.Len(t, ds.Records, 1)
	assert.Equal(t, 2024, ds.Records[0].Time.Year)
	assert.Nil(t, ds.Records[0].Hijri)
}

func TestLoaderMissingBothFiles(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(filepath.Join(dir, "raw.csv"), filepath.Join(dir, "enriched.csv"))

	ds, err := loader.Load()

	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	assert.Empty(t, ds.Records)
}

func TestLoaderLoadRaw(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeFile(t, dir, "raw.csv", rawFixture)
	loader := NewLoader(rawPath, filepath.Join(dir, "enriched.csv"))

	result, err := loader.LoadRaw()

	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, 1, result.Dropped)
}

func TestLoaderLoadRaw_Missing(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(filepath.Join(dir, "nope.csv"), filepath.Join(dir, "enriched.csv"))

	_, err := loader.LoadRaw()

	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}
