// Package islamic tags Hijri dates with the calendar events this dataset
// tracks. The windows are the deterministic tabular approximation used by the
// source data (Eid al-Fitr = 1-3 Shawwal, Hajj & Eid al-Adha = 8-13 Dhul
// Hijjah); true observational dates vary by region and are out of scope.
package islamic

import "ihsan/internal/hijri"

// Event labels a significant Islamic calendar occasion.
type Event string

const (
	EventRamadanFirstTen  Event = "Ramadan (First 10 Days)"
	EventRamadanMiddleTen Event = "Ramadan (Middle 10 Days)"
	EventRamadanLastTen   Event = "Ramadan (Last 10 Days)"
	EventEidAlFitr        Event = "Eid al-Fitr"
	EventHajjEidAlAdha    Event = "Hajj & Eid al-Adha"
	EventAshura           Event = "Day of Ashura"
	EventMawlid           Event = "Mawlid al-Nabi"
)

// RamadanPeriod names a ten-day sub-period of Ramadan.
type RamadanPeriod string

const (
	PeriodFirstTen  RamadanPeriod = "First 10 Days"
	PeriodMiddleTen RamadanPeriod = "Middle 10 Days"
	PeriodLastTen   RamadanPeriod = "Last 10 Days"
)

// Classification is the full event tagging for one Hijri date. Event and
// RamadanPeriod are empty when no rule matches.
type Classification struct {
	IsRamadan     bool
	RamadanPeriod RamadanPeriod
	Event         Event
}

// Classify maps a Hijri date to its classification. The rules key off
// disjoint month/day windows, so at most one event label ever applies.
// IsRamadan depends only on the month, independent of the event table.
func Classify(d hijri.Date) Classification {
	c := Classification{IsRamadan: d.Month == hijri.Ramadan}

	switch {
	case d.Month == hijri.Ramadan && d.Day <= 10:
		c.RamadanPeriod = PeriodFirstTen
		c.Event = EventRamadanFirstTen
	case d.Month == hijri.Ramadan && d.Day <= 20:
		c.RamadanPeriod = PeriodMiddleTen
		c.Event = EventRamadanMiddleTen
	case d.Month == hijri.Ramadan:
		c.RamadanPeriod = PeriodLastTen
		c.Event = EventRamadanLastTen
	case d.Month == 10 && d.Day <= 3:
		c.Event = EventEidAlFitr
	case d.Month == 12 && d.Day >= 8 && d.Day <= 13:
		c.Event = EventHajjEidAlAdha
	case d.Month == 1 && d.Day == 10:
		c.Event = EventAshura
	case d.Month == 3 && d.Day == 12:
		c.Event = EventMawlid
	}

	return c
}
