// Package donation holds the domain model shared by the pipeline, the
// aggregators, and the dataset stores.
package donation

import (
	"fmt"
	"sort"
	"time"

	"ihsan/internal/hijri"
	"ihsan/internal/islamic"
)

// Record is one validated row of the source dataset. Donor IDs are opaque and
// repeat across records; amounts are non-negative AED.
type Record struct {
	DonorID  string
	Date     time.Time
	Amount   float64
	Category string
}

// TimeDimensions are the Gregorian calendar parts derived from the donation
// timestamp. They are persisted alongside the record so downstream consumers
// never re-derive them.
type TimeDimensions struct {
	Year      int
	Month     int
	MonthName string
	Quarter   int
	Day       int
	Weekday   string
	ISOWeek   int
	Hour      int
	DateOnly  string
}

// TimeDimensionsOf derives all Gregorian time parts from t.
func TimeDimensionsOf(t time.Time) TimeDimensions {
	_, isoWeek := t.ISOWeek()
	return TimeDimensions{
		Year:      t.Year(),
		Month:     int(t.Month()),
		MonthName: t.Month().String(),
		Quarter:   (int(t.Month())-1)/3 + 1,
		Day:       t.Day(),
		Weekday:   t.Weekday().String(),
		ISOWeek:   isoWeek,
		Hour:      t.Hour(),
		DateOnly:  t.Format("2006-01-02"),
	}
}

// Enriched is a Record extended with calendar and translation data. Hijri is
// nil when the conversion failed; IsRamadan is then false and the islamic
// fields empty. Enriched records are immutable once produced - the only way
// to change one is to re-run the pipeline.
type Enriched struct {
	Record
	Time           TimeDimensions
	Hijri          *hijri.Date
	HijriMonthName string
	IsRamadan      bool
	RamadanPeriod  islamic.RamadanPeriod
	Event          islamic.Event
	CategoryEN     string
}

// DisplayCategory returns the translated category when available, falling
// back to the original label.
func (e Enriched) DisplayCategory() string {
	if e.CategoryEN != "" {
		return e.CategoryEN
	}
	return e.Category
}

// Dataset is an ordered collection of enriched records. Enriched is false in
// degraded mode, when the server had to fall back to the raw file and the
// Islamic-calendar fields carry their defaults.
type Dataset struct {
	Records  []Enriched
	Enriched bool
}

// FilterDateRange returns the records whose calendar date falls in
// [from, to], inclusive on both ends.
func (d Dataset) FilterDateRange(from, to time.Time) Dataset {
	fromDay := from.Format("2006-01-02")
	toDay := to.Format("2006-01-02")

	out := make([]Enriched, 0, len(d.Records))
	for _, r := range d.Records {
		day := r.Date.Format("2006-01-02")
		if day >= fromDay && day <= toDay {
			out = append(out, r)
		}
	}
	return Dataset{Records: out, Enriched: d.Enriched}
}

// FilterCategories keeps records whose display category matches any of the
// given labels. An empty filter returns the dataset unchanged.
func (d Dataset) FilterCategories(categories []string) Dataset {
	if len(categories) == 0 {
		return d
	}
	keep := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		keep[c] = struct{}{}
	}

	out := make([]Enriched, 0, len(d.Records))
	for _, r := range d.Records {
		if _, ok := keep[r.DisplayCategory()]; ok {
			out = append(out, r)
		}
	}
	return Dataset{Records: out, Enriched: d.Enriched}
}

// Categories returns the sorted distinct display categories.
func (d Dataset) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range d.Records {
		c := r.DisplayCategory()
		if c == "" {
			continue
		}
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// DateRange returns the earliest and latest donation timestamps, or ok=false
// for an empty dataset.
func (d Dataset) DateRange() (min, max time.Time, ok bool) {
	if len(d.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = d.Records[0].Date, d.Records[0].Date
	for _, r := range d.Records[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, true
}

func (r Record) String() string {
	return fmt.Sprintf("donation{donor=%s amount=%.2f at=%s}", r.DonorID, r.Amount, r.Date.Format(time.RFC3339))
}
