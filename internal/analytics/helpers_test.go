package analytics

import (
	"time"

	"ihsan/internal/donation"
	"ihsan/internal/islamic"
)

func record(donor, day string, amount float64, category string) donation.Enriched {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return donation.Enriched{
		Record: donation.Record{
			DonorID:  donor,
			Date:     t,
			Amount:   amount,
			Category: category,
		},
		Time: donation.TimeDimensionsOf(t),
	}
}

func ramadanRecord(donor, day string, amount float64, category string) donation.Enriched {
	r := record(donor, day, amount, category)
	r.IsRamadan = true
	r.RamadanPeriod = islamic.PeriodFirstTen
	r.Event = islamic.EventRamadanFirstTen
	return r
}
