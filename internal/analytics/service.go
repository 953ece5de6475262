package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ihsan/internal/analytics/metrics"
	"ihsan/internal/donation"
	dErrors "ihsan/pkg/domain-errors"
)

// Filter narrows a query to a date range and a category subset. Nil bounds
// and an empty category list leave that dimension unfiltered.
type Filter struct {
	From       *time.Time
	To         *time.Time
	Categories []string
}

// Summary describes the loaded dataset for the dashboard header.
type Summary struct {
	TotalRecords int      `json:"total_records"`
	DateFrom     string   `json:"date_from,omitempty"`
	DateTo       string   `json:"date_to,omitempty"`
	Categories   []string `json:"categories"`
	Degraded     bool     `json:"degraded"`
}

// DonorsResult bundles the donor aggregates with the top-donor listing.
type DonorsResult struct {
	Statistics DonorStatistics `json:"statistics"`
	Top        []DonorSummary  `json:"top"`
}

// GrowthResult is the growth rate for one granularity.
type GrowthResult struct {
	Granularity Granularity `json:"granularity"`
	Rate        float64     `json:"rate"`
}

// Service answers analytics queries against an in-memory dataset snapshot.
// Replace swaps the snapshot atomically, so queries racing a reprocess see
// either the old dataset or the new one, never a mix.
type Service struct {
	mu      sync.RWMutex
	dataset donation.Dataset

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used by the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics recorder used by the Service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates an analytics Service over the given dataset.
func NewService(dataset donation.Dataset, opts ...Option) *Service {
	s := &Service{
		dataset: dataset,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace swaps the dataset snapshot.
func (s *Service) Replace(dataset donation.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = dataset
	s.logger.Info("analytics dataset replaced",
		"records", len(dataset.Records),
		"enriched", dataset.Enriched,
	)
}

// Degraded reports whether the current snapshot lacks calendar enrichment.
func (s *Service) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.dataset.Enriched
}

// Summary returns the dataset overview. It ignores filters so the dashboard
// header always reflects the full dataset.
func (s *Service) Summary(ctx context.Context) Summary {
	s.observe("summary")
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Summary{
		TotalRecords: len(s.dataset.Records),
		Categories:   s.dataset.Categories(),
		Degraded:     !s.dataset.Enriched,
	}
	if min, max, ok := s.dataset.DateRange(); ok {
		out.DateFrom = min.Format("2006-01-02")
		out.DateTo = max.Format("2006-01-02")
	}
	return out
}

// KPIs computes the KPI set for the filtered records.
func (s *Service) KPIs(ctx context.Context, f Filter) KPIs {
	s.observe("kpis")
	return CalculateKPIs(s.filtered(f))
}

// Growth computes the growth rate for the filtered records.
func (s *Service) Growth(ctx context.Context, f Filter, g Granularity) (GrowthResult, error) {
	s.observe("growth")
	if g != GranularityMonth && g != GranularityYear {
		return GrowthResult{}, dErrors.New(dErrors.CodeBadRequest, "granularity must be month or year")
	}
	return GrowthResult{Granularity: g, Rate: CalculateGrowthRate(s.filtered(f), g)}, nil
}

// Donors computes donor aggregates and the top n donors for the filtered
// records.
func (s *Service) Donors(ctx context.Context, f Filter, n int) DonorsResult {
	s.observe("donors")
	records := s.filtered(f)
	return DonorsResult{
		Statistics: CalculateDonorStatistics(records),
		Top:        TopDonors(records, n),
	}
}

// Events computes per-event aggregates for the filtered records.
func (s *Service) Events(ctx context.Context, f Filter) []EventStat {
	s.observe("events")
	return CalculateEventStatistics(s.filtered(f))
}

// Categories computes the top n category aggregates for the filtered records.
func (s *Service) Categories(ctx context.Context, f Filter, n int) []CategoryStat {
	s.observe("categories")
	return CalculateCategoryStatistics(s.filtered(f), n)
}

// TimeStats computes calendar-time aggregates for the filtered records.
func (s *Service) TimeStats(ctx context.Context, f Filter) TimeStatistics {
	s.observe("timestats")
	return CalculateTimeStatistics(s.filtered(f))
}

// Compare computes the KPI comparison between two filtered subsets.
func (s *Service) Compare(ctx context.Context, a, b Filter, labelA, labelB string) Comparison {
	s.observe("compare")
	return ComparePeriods(s.filtered(a), s.filtered(b), labelA, labelB)
}

func (s *Service) filtered(f Filter) []donation.Enriched {
	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	if f.From != nil || f.To != nil {
		from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		if f.From != nil {
			from = *f.From
		}
		if f.To != nil {
			to = *f.To
		}
		ds = ds.FilterDateRange(from, to)
	}
	ds = ds.FilterCategories(f.Categories)

	if len(ds.Records) == 0 && s.metrics != nil {
		s.metrics.IncrementEmptyResults()
	}
	return ds.Records
}

func (s *Service) observe(endpoint string) {
	if s.metrics != nil {
		s.metrics.IncrementQueries(endpoint)
	}
}
