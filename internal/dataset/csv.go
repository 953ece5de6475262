// Package dataset reads and writes the donation dataset files and the
// optional Postgres copy. The CSV layer selects columns by name on read and
// writes the enriched file in a fixed column order for downstream consumers.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"ihsan/internal/donation"
	"ihsan/internal/hijri"
	"ihsan/internal/islamic"
)

// enrichedColumns is the output column order. Consumers select by name, but
// the order stays stable anyway.
var enrichedColumns = []string{
	"id", "donationdate", "amount", "donationtype", "donationtype_en",
	"year", "month", "month_name", "quarter", "day", "weekday", "week", "hour", "date",
	"hijri_year", "hijri_month", "hijri_day", "hijri_month_name",
	"is_ramadan", "ramadan_period", "islamic_event",
}

// timestampLayouts are the accepted donation timestamp formats, tried in
// order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// RawResult is the outcome of parsing a raw donation file. Dropped counts
// rows discarded for an unparseable date or a missing, non-numeric, or
// negative amount.
type RawResult struct {
	Records []donation.Record
	Dropped int
}

// ReadRaw parses the raw donation CSV. Rows with invalid dates or amounts
// are dropped and counted, never surfaced individually.
func ReadRaw(r io.Reader) (RawResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return RawResult{}, fmt.Errorf("reading raw header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"id", "donationdate", "amount", "donationtype"} {
		if _, ok := cols[required]; !ok {
			return RawResult{}, fmt.Errorf("raw file missing column %q", required)
		}
	}

	var out RawResult
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawResult{}, fmt.Errorf("reading raw row: %w", err)
		}

		date, ok := parseTimestamp(field(row, cols, "donationdate"))
		if !ok {
			out.Dropped++
			continue
		}
		amount, err := strconv.ParseFloat(field(row, cols, "amount"), 64)
		if err != nil || amount < 0 {
			out.Dropped++
			continue
		}

		out.Records = append(out.Records, donation.Record{
			DonorID:  field(row, cols, "id"),
			Date:     date,
			Amount:   amount,
			Category: field(row, cols, "donationtype"),
		})
	}
	return out, nil
}

// WriteEnriched writes the enriched dataset with the full column set.
func WriteEnriched(w io.Writer, records []donation.Enriched) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(enrichedColumns); err != nil {
		return fmt.Errorf("writing enriched header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(enrichedRow(r)); err != nil {
			return fmt.Errorf("writing enriched row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEnriched parses a previously written enriched file.
func ReadEnriched(r io.Reader) ([]donation.Enriched, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading enriched header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range enrichedColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("enriched file missing column %q", required)
		}
	}

	var out []donation.Enriched
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading enriched row: %w", err)
		}

		date, ok := parseTimestamp(field(row, cols, "donationdate"))
		if !ok {
			return nil, fmt.Errorf("enriched file has invalid donationdate %q", field(row, cols, "donationdate"))
		}
		amount, err := strconv.ParseFloat(field(row, cols, "amount"), 64)
		if err != nil {
			return nil, fmt.Errorf("enriched file has invalid amount %q", field(row, cols, "amount"))
		}

		e := donation.Enriched{
			Record: donation.Record{
				DonorID:  field(row, cols, "id"),
				Date:     date,
				Amount:   amount,
				Category: field(row, cols, "donationtype"),
			},
			Time:           donation.TimeDimensionsOf(date),
			CategoryEN:     field(row, cols, "donationtype_en"),
			HijriMonthName: field(row, cols, "hijri_month_name"),
			RamadanPeriod:  islamic.RamadanPeriod(field(row, cols, "ramadan_period")),
			Event:          islamic.Event(field(row, cols, "islamic_event")),
		}
		e.IsRamadan = field(row, cols, "is_ramadan") == "true"

		hy, errY := strconv.Atoi(field(row, cols, "hijri_year"))
		hm, errM := strconv.Atoi(field(row, cols, "hijri_month"))
		hd, errD := strconv.Atoi(field(row, cols, "hijri_day"))
		if errY == nil && errM == nil && errD == nil {
			e.Hijri = &hijri.Date{Year: hy, Month: hm, Day: hd}
		}

		out = append(out, e)
	}
	return out, nil
}

func enrichedRow(r donation.Enriched) []string {
	hijriYear, hijriMonth, hijriDay := "", "", ""
	if r.Hijri != nil {
		hijriYear = strconv.Itoa(r.Hijri.Year)
		hijriMonth = strconv.Itoa(r.Hijri.Month)
		hijriDay = strconv.Itoa(r.Hijri.Day)
	}
	return []string{
		r.DonorID,
		r.Date.Format("2006-01-02 15:04:05"),
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
		r.Category,
		r.CategoryEN,
		strconv.Itoa(r.Time.Year),
		strconv.Itoa(r.Time.Month),
		r.Time.MonthName,
		strconv.Itoa(r.Time.Quarter),
		strconv.Itoa(r.Time.Day),
		r.Time.Weekday,
		strconv.Itoa(r.Time.ISOWeek),
		strconv.Itoa(r.Time.Hour),
		r.Time.DateOnly,
		hijriYear,
		hijriMonth,
		hijriDay,
		r.HijriMonthName,
		strconv.FormatBool(r.IsRamadan),
		string(r.RamadanPeriod),
		string(r.Event),
	}
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
