// Package enrich applies the Hijri conversion and event classification to
// donation records in batches. Batching exists for progress observability
// only: batch size and worker count never change the output.
package enrich

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ihsan/internal/donation"
	"ihsan/internal/enrich/metrics"
	"ihsan/internal/hijri"
	"ihsan/internal/islamic"
)

// Progress reports one completed batch.
type Progress struct {
	Batch        int
	TotalBatches int
	Processed    int
	Total        int
}

// Enricher converts records to enriched records. The zero option set runs
// sequentially with a 10k batch size.
type Enricher struct {
	batchSize  int
	workers    int
	onProgress func(Progress)
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Enricher) {
		e.metrics = m
	}
}

// WithBatchSize overrides the progress-reporting batch size.
func WithBatchSize(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithWorkers enables parallel batch processing. Output order is unaffected:
// every batch writes into its own slice segment.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithProgress registers a per-batch notification callback. The callback must
// not be relied on for correctness; it may run concurrently when workers > 1.
func WithProgress(fn func(Progress)) Option {
	return func(e *Enricher) {
		e.onProgress = fn
	}
}

// New constructs an Enricher.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		batchSize: 10000,
		workers:   1,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich converts every record, preserving input order. A record whose date
// precedes the Islamic epoch (or otherwise fails conversion) keeps its
// Gregorian fields and carries no Hijri data - records are never dropped
// here. The only error returned is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, records []donation.Record) ([]donation.Enriched, error) {
	out := make([]donation.Enriched, len(records))
	if len(records) == 0 {
		return out, nil
	}

	totalBatches := (len(records) + e.batchSize - 1) / e.batchSize

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for start, batchNum := 0, 1; start < len(records); start, batchNum = start+e.batchSize, batchNum+1 {
		end := min(start+e.batchSize, len(records))
		start, end, batchNum := start, end, batchNum

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = e.enrichOne(records[i])
			}
			if e.onProgress != nil {
				e.onProgress(Progress{
					Batch:        batchNum,
					TotalBatches: totalBatches,
					Processed:    end - start,
					Total:        len(records),
				})
			}
			if e.metrics != nil {
				e.metrics.IncrementRecordsEnriched(end - start)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Enricher) enrichOne(r donation.Record) donation.Enriched {
	enriched := donation.Enriched{
		Record: r,
		Time:   donation.TimeDimensionsOf(r.Date),
	}

	h, err := hijri.FromTime(r.Date)
	if err != nil {
		// Defined fallback state: no Hijri fields, IsRamadan false.
		if e.metrics != nil {
			e.metrics.IncrementConversionFailures()
		}
		e.logger.Debug("hijri conversion failed",
			"date", r.Date.Format("2006-01-02"),
			"error", err,
		)
		return enriched
	}

	c := islamic.Classify(h)
	enriched.Hijri = &h
	enriched.HijriMonthName = h.MonthName()
	enriched.IsRamadan = c.IsRamadan
	enriched.RamadanPeriod = c.RamadanPeriod
	enriched.Event = c.Event

	if c.IsRamadan && e.metrics != nil {
		e.metrics.IncrementRamadanRecords()
	}
	return enriched
}
