// Package pipeline orchestrates a full preprocessing run: load the raw file,
// clean it, keep only complete years, enrich with calendar data, translate
// category labels, and persist the enriched dataset.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ihsan/internal/dataset"
	"ihsan/internal/donation"
	"ihsan/internal/pipeline/metrics"
	dErrors "ihsan/pkg/domain-errors"
)

// Source loads raw records and persists the enriched output file.
type Source interface {
	LoadRaw() (dataset.RawResult, error)
	WriteEnrichedFile(records []donation.Enriched) error
}

// Enricher converts cleaned records into enriched records.
type Enricher interface {
	Enrich(ctx context.Context, records []donation.Record) ([]donation.Enriched, error)
}

// Translator resolves category labels to their translations.
type Translator interface {
	TranslateAll(ctx context.Context, labels []string) (map[string]string, error)
}

// Sink receives an optional secondary copy of the enriched dataset.
type Sink interface {
	Replace(ctx context.Context, records []donation.Enriched) error
}

// Publisher emits run lifecycle events. Publishing is best effort and never
// fails a run.
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
}

// Summary is the outcome of one pipeline run, logged at the end and carried
// on the run-completed event.
type Summary struct {
	RunID             string         `json:"run_id"`
	RawRecords        int            `json:"raw_records"`
	DroppedInvalid    int            `json:"dropped_invalid"`
	DroppedYearFilter int            `json:"dropped_year_filter"`
	Processed         int            `json:"processed"`
	TotalAmount       float64        `json:"total_amount"`
	UniqueDonors      int            `json:"unique_donors"`
	UniqueCategories  int            `json:"unique_categories"`
	RamadanCount      int            `json:"ramadan_count"`
	RamadanPercentage float64        `json:"ramadan_percentage"`
	EventCounts       map[string]int `json:"event_counts"`
	TranslatedLabels  int            `json:"translated_labels"`
	Duration          time.Duration  `json:"duration_ns"`
}

// Runner executes pipeline runs.
type Runner struct {
	source     Source
	enricher   Enricher
	translator Translator
	sink       Sink
	publisher  Publisher
	yearFrom   int
	yearTo     int
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithSink adds a secondary dataset sink, written after the enriched file.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithPublisher adds a run-event publisher.
func WithPublisher(p Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// WithYearWindow bounds the complete-years filter, inclusive on both ends.
func WithYearWindow(from, to int) Option {
	return func(r *Runner) {
		r.yearFrom, r.yearTo = from, to
	}
}

// NewRunner constructs a Runner. Source, enricher, and translator are
// required; sink and publisher are optional.
func NewRunner(source Source, enricher Enricher, translator Translator, opts ...Option) (*Runner, error) {
	if source == nil || enricher == nil || translator == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "pipeline requires a source, an enricher, and a translator")
	}
	r := &Runner{
		source:     source,
		enricher:   enricher,
		translator: translator,
		yearFrom:   2019,
		yearTo:     2024,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes one pipeline run end to end and returns its summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	if r.metrics != nil {
		r.metrics.IncrementRunsTotal()
	}
	r.logger.Info("pipeline run started",
		"run_id", runID,
		"year_from", r.yearFrom,
		"year_to", r.yearTo,
	)
	r.publish(ctx, runID, "run_started", map[string]any{
		"run_id":     runID,
		"started_at": start.UTC().Format(time.RFC3339),
	})

	summary, err := r.run(ctx, runID)
	summary.RunID = runID
	summary.Duration = time.Since(start)

	if r.metrics != nil {
		r.metrics.ObserveRunDuration(summary.Duration.Seconds())
	}
	if err != nil {
		if r.metrics != nil {
			r.metrics.IncrementRunsFailed()
		}
		r.logger.Error("pipeline run failed",
			"run_id", runID,
			"error", err.Error(),
		)
		r.publish(ctx, runID, "run_failed", map[string]any{
			"run_id": runID,
			"error":  err.Error(),
		})
		return summary, err
	}

	r.logger.Info("pipeline run completed",
		"run_id", runID,
		"raw_records", summary.RawRecords,
		"dropped_invalid", summary.DroppedInvalid,
		"dropped_year_filter", summary.DroppedYearFilter,
		"processed", summary.Processed,
		"ramadan_count", summary.RamadanCount,
		"ramadan_percentage", summary.RamadanPercentage,
		"unique_donors", summary.UniqueDonors,
		"unique_categories", summary.UniqueCategories,
		"translated_labels", summary.TranslatedLabels,
		"duration", summary.Duration.String(),
	)
	r.publish(ctx, runID, "run_completed", summary)
	return summary, nil
}

func (r *Runner) run(ctx context.Context, runID string) (Summary, error) {
	var summary Summary

	raw, err := r.source.LoadRaw()
	if err != nil {
		return summary, err
	}
	summary.RawRecords = len(raw.Records) + raw.Dropped
	summary.DroppedInvalid = raw.Dropped

	kept := make([]donation.Record, 0, len(raw.Records))
	for _, rec := range raw.Records {
		year := rec.Date.Year()
		if year < r.yearFrom || year > r.yearTo {
			summary.DroppedYearFilter++
			continue
		}
		kept = append(kept, rec)
	}
	if r.metrics != nil {
		r.metrics.AddRecordsDropped("invalid", summary.DroppedInvalid)
		r.metrics.AddRecordsDropped("incomplete_year", summary.DroppedYearFilter)
	}

	enriched, err := r.enricher.Enrich(ctx, kept)
	if err != nil {
		return summary, err
	}

	translations, err := r.translate(ctx, enriched)
	if err != nil {
		return summary, err
	}
	summary.TranslatedLabels = len(translations)

	if err := r.source.WriteEnrichedFile(enriched); err != nil {
		return summary, err
	}
	if r.sink != nil {
		if err := r.sink.Replace(ctx, enriched); err != nil {
			return summary, err
		}
	}
	if r.metrics != nil {
		r.metrics.AddRecordsProcessed(len(enriched))
	}

	r.summarize(&summary, enriched)
	return summary, nil
}

// translate resolves each distinct category once and writes the result back
// onto the records.
func (r *Runner) translate(ctx context.Context, records []donation.Enriched) (map[string]string, error) {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, rec := range records {
		if rec.Category == "" {
			continue
		}
		if _, ok := seen[rec.Category]; !ok {
			seen[rec.Category] = struct{}{}
			labels = append(labels, rec.Category)
		}
	}

	translations, err := r.translator.TranslateAll(ctx, labels)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if translated, ok := translations[records[i].Category]; ok {
			records[i].CategoryEN = translated
		}
	}
	return translations, nil
}

func (r *Runner) summarize(summary *Summary, records []donation.Enriched) {
	summary.Processed = len(records)
	summary.EventCounts = make(map[string]int)

	donors := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, rec := range records {
		summary.TotalAmount += rec.Amount
		donors[rec.DonorID] = struct{}{}
		if c := rec.DisplayCategory(); c != "" {
			categories[c] = struct{}{}
		}
		if rec.IsRamadan {
			summary.RamadanCount++
		}
		if rec.Event != "" {
			summary.EventCounts[string(rec.Event)]++
		}
	}
	summary.UniqueDonors = len(donors)
	summary.UniqueCategories = len(categories)
	if len(records) > 0 {
		summary.RamadanPercentage = float64(summary.RamadanCount) / float64(len(records)) * 100
	}
}

func (r *Runner) publish(ctx context.Context, runID, event string, v any) {
	if r.publisher == nil {
		return
	}
	payload := map[string]any{"event": event, "payload": v}
	if err := r.publisher.Publish(ctx, runID, payload); err != nil {
		r.logger.Warn("run event publish failed",
			"run_id", runID,
			"event", event,
			"error", err.Error(),
		)
	}
}
