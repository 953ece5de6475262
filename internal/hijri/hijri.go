// Package hijri converts Gregorian calendar dates to tabular Islamic (Hijri)
// dates. The conversion is the civil arithmetic approximation (30-year cycle
// with leap years 2, 5, 7, 10, 13, 16, 18, 21, 24, 26 and 29), not an
// observational moon-sighting calendar.
package hijri

import (
	"errors"
	"fmt"
	"time"
)

// Date is a Hijri calendar date. Month is 1-12 (Muharram-Dhul Hijjah),
// Day is 1-30.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Ramadan is the 9th month of the Hijri calendar.
const Ramadan = 9

// civilEpochJDN is the Julian Day Number of 1 Muharram 1 AH, which falls on
// 19 July 622 CE in the proleptic Gregorian calendar (16 July 622 Julian).
const civilEpochJDN = 1948440

// ErrBeforeEpoch is returned for Gregorian dates before the Islamic epoch.
// Negative Hijri years are never produced.
var ErrBeforeEpoch = errors.New("date precedes the Islamic epoch")

// FromTime converts the calendar date of t to a Hijri date. The time of day
// and location are ignored beyond selecting the calendar day.
func FromTime(t time.Time) (Date, error) {
	y, m, d := t.Date()
	return FromGregorian(y, int(m), d)
}

// FromGregorian converts a proleptic Gregorian date to a Hijri date.
func FromGregorian(year, month, day int) (Date, error) {
	jdn := gregorianToJDN(year, month, day)
	if jdn < civilEpochJDN {
		return Date{}, fmt.Errorf("%04d-%02d-%02d: %w", year, month, day, ErrBeforeEpoch)
	}
	return jdnToHijri(jdn), nil
}

// gregorianToJDN computes the Julian Day Number for a proleptic Gregorian
// date using the standard Fliegel-Van Flandern integer formula.
func gregorianToJDN(year, month, day int) int {
	a := (month - 14) / 12
	jdn := (1461 * (year + 4800 + a)) / 4
	jdn += (367 * (month - 2 - 12*a)) / 12
	jdn -= (3 * ((year + 4900 + a) / 100)) / 4
	jdn += day - 32075
	return jdn
}

// jdnToHijri recovers the civil tabular Hijri date from a Julian Day Number
// at or after the epoch.
func jdnToHijri(jdn int) Date {
	l := jdn - civilEpochJDN + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30
	return Date{Year: year, Month: month, Day: day}
}

var monthNames = [13]string{
	"",
	"Muharram",
	"Safar",
	"Rabi al-Awwal",
	"Rabi al-Thani",
	"Jumada al-Awwal",
	"Jumada al-Thani",
	"Rajab",
	"Shaban",
	"Ramadan",
	"Shawwal",
	"Dhul Qadah",
	"Dhul Hijjah",
}

// MonthName returns the English name of a Hijri month, or "Unknown" for
// values outside 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "Unknown"
	}
	return monthNames[month]
}

// MonthName returns the English name of the date's month.
func (d Date) MonthName() string {
	return MonthName(d.Month)
}

// IsRamadan reports whether the date falls in Ramadan.
func (d Date) IsRamadan() bool {
	return d.Month == Ramadan
}

func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d AH", d.Year, d.Month, d.Day)
}
