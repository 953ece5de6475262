// Package admin exposes the operator endpoints: re-running the enrichment
// pipeline and swapping the served dataset without a restart.
package admin

import (
	"context"
	"log/slog"
	"sync"

	"ihsan/internal/donation"
	"ihsan/internal/pipeline"
	dErrors "ihsan/pkg/domain-errors"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) (pipeline.Summary, error)
}

// Loader reloads the dataset after a run.
type Loader interface {
	Load() (donation.Dataset, error)
}

// DatasetHolder receives the reloaded dataset.
type DatasetHolder interface {
	Replace(dataset donation.Dataset)
}

// Service runs the reprocess flow. Runs are serialized: a second request
// while one is in flight is rejected instead of queued.
type Service struct {
	runner Runner
	loader Loader
	holder DatasetHolder
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used by the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates an admin Service.
func NewService(runner Runner, loader Loader, holder DatasetHolder, opts ...Option) (*Service, error) {
	if runner == nil || loader == nil || holder == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "admin service requires a runner, a loader, and a dataset holder")
	}
	s := &Service{
		runner: runner,
		loader: loader,
		holder: holder,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reprocess runs the pipeline and swaps the served dataset for the result.
func (s *Service) Reprocess(ctx context.Context) (pipeline.Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return pipeline.Summary{}, dErrors.New(dErrors.CodeUnavailable, "a reprocess run is already in progress")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	summary, err := s.runner.Run(ctx)
	if err != nil {
		return summary, dErrors.Wrap(err, dErrors.CodeInternal, "pipeline run failed")
	}

	ds, err := s.loader.Load()
	if err != nil {
		return summary, dErrors.Wrap(err, dErrors.CodeInternal, "reloading dataset after run failed")
	}
	s.holder.Replace(ds)

	s.logger.Info("dataset reprocessed and reloaded",
		"run_id", summary.RunID,
		"records", summary.Processed,
	)
	return summary, nil
}
