package dataset

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ihsan/internal/donation"
	"ihsan/internal/hijri"
	"ihsan/internal/islamic"
)

func TestReadRaw(t *testing.T) {
	input := strings.Join([]string{
		"id,donationdate,amount,donationtype",
		"donor-1,2024-03-24 10:30:00,150.50,زكاة",
		"donor-2,2024-03-25,200,صدقة",
	}, "\n")

	result, err := ReadRaw(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 0, result.Dropped)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "donor-1", result.Records[0].DonorID)
	assert.Equal(t, 150.50, result.Records[0].Amount)
	assert.Equal(t, "زكاة", result.Records[0].Category)
	assert.Equal(t, time.Date(2024, 3, 24, 10, 30, 0, 0, time.UTC), result.Records[0].Date)
	assert.Equal(t, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), result.Records[1].Date)
}

func TestReadRaw_DropsInvalidRows(t *testing.T) {
	// 100 rows: 5 unparseable dates, 3 bad amounts, 92 valid.
	var sb strings.Builder
	sb.WriteString("id,donationdate,amount,donationtype\n")
	for i := 0; i < 92; i++ {
		fmt.Fprintf(&sb, "donor-%d,2024-01-%02d 09:00:00,%d,Zakat\n", i, i%28+1, 100+i)
	}
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&sb, "donor-bad-date-%d,not-a-date,100,Zakat\n", i)
	}
	sb.WriteString("donor-bad-amount-0,2024-01-01 09:00:00,,Zakat\n")
	sb.WriteString("donor-bad-amount-1,2024-01-01 09:00:00,abc,Zakat\n")
	sb.WriteString("donor-bad-amount-2,2024-01-01 09:00:00,-50,Zakat\n")

	result, err := ReadRaw(strings.NewReader(sb.String()))

	require.NoError(t, err)
	assert.Len(t, result.Records, 92)
	assert.Equal(t, 8, result.Dropped)
}

func TestReadRaw_ColumnsSelectedByName(t *testing.T) {
	input := strings.Join([]string{
		"donationtype,amount,id,donationdate,extra",
		"Zakat,75,donor-9,2024-05-01 12:00:00,ignored",
	}, "\n")

	result, err := ReadRaw(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "donor-9", result.Records[0].DonorID)
	assert.Equal(t, 75.0, result.Records[0].Amount)
}

func TestReadRaw_MissingColumn(t *testing.T) {
	_, err := ReadRaw(strings.NewReader("id,donationdate,donationtype\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestEnrichedRoundTrip(t *testing.T) {
	date := time.Date(2024, 3, 24, 14, 0, 0, 0, time.UTC)
	records := []donation.Enriched{
		{
			Record: donation.Record{
				DonorID:  "donor-1",
				Date:     date,
				Amount:   500,
				Category: "زكاة",
			},
			Time:           donation.TimeDimensionsOf(date),
			Hijri:          &hijri.Date{Year: 1445, Month: 9, Day: 15},
			HijriMonthName: "Ramadan",
			IsRamadan:      true,
			RamadanPeriod:  islamic.PeriodMiddleTen,
			Event:          islamic.EventRamadanMiddleTen,
			CategoryEN:     "Zakat",
		},
		{
			// Conversion failure: no Hijri fields.
			Record: donation.Record{
				DonorID:  "donor-2",
				Date:     date,
				Amount:   10,
				Category: "Sadaqah",
			},
			Time: donation.TimeDimensionsOf(date),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEnriched(&buf, records))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(enrichedColumns, ","), header)

	got, err := ReadEnriched(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, records[0].Record, got[0].Record)
	require.NotNil(t, got[0].Hijri)
	assert.Equal(t, *records[0].Hijri, *got[0].Hijri)
	assert.Equal(t, "Ramadan", got[0].HijriMonthName)
	assert.True(t, got[0].IsRamadan)
	assert.Equal(t, islamic.PeriodMiddleTen, got[0].RamadanPeriod)
	assert.Equal(t, islamic.EventRamadanMiddleTen, got[0].Event)
	assert.Equal(t, "Zakat", got[0].CategoryEN)

	assert.Nil(t, got[1].Hijri)
	assert.False(t, got[1].IsRamadan)
	assert.Equal(t, 2024, got[1].Time.Year)
}

func TestReadEnriched_MissingColumn(t *testing.T) {
	_, err := ReadEnriched(strings.NewReader("id,donationdate,amount\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
