// Package translate memoizes category translations behind an explicit cache
// and an injectable remote collaborator, so pipeline runs are deterministic
// under test and frugal with the real translation API.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ihsan/internal/translate/metrics"
)

// Service resolves category labels through the cache, falling back to the
// remote collaborator on miss. A remote failure yields the original label and
// is not cached, so the next lookup retries.
type Service struct {
	cache   Cache
	remote  Remote
	limiter *limiter
	logger  *slog.Logger
	metrics *metrics.Metrics

	sourceLang string
	targetLang string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDelay overrides the fixed pause enforced between remote calls. The
// limiter is shared by all callers of this Service, so the delay holds
// globally even when enrichment batches run in parallel.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		s.limiter.delay = d
	}
}

// WithLanguages overrides the source/target language pair.
func WithLanguages(source, target string) Option {
	return func(s *Service) {
		s.sourceLang = source
		s.targetLang = target
	}
}

// New constructs a translation service. Both stores are required; use the
// memory cache and a no-op remote for offline runs.
func New(cache Cache, remote Remote, opts ...Option) (*Service, error) {
	if cache == nil {
		return nil, fmt.Errorf("translation cache is required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote translator is required")
	}

	svc := &Service{
		cache:      cache,
		remote:     remote,
		limiter:    &limiter{delay: 100 * time.Millisecond},
		logger:     slog.Default(),
		sourceLang: "ar",
		targetLang: "en",
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Translate resolves a single label. Empty labels propagate as empty - the
// absence of a category is never translated.
func (s *Service) Translate(ctx context.Context, label string) (string, error) {
	if label == "" {
		return "", nil
	}

	cached, ok, err := s.cache.Get(ctx, label)
	if err != nil {
		// A flaky cache must not fail the run; treat the lookup as a miss.
		s.logger.WarnContext(ctx, "translation cache lookup failed, falling through to remote",
			"label", label,
			"error", err,
		)
		ok = false
	}
	if ok {
		if s.metrics != nil {
			s.metrics.IncrementCacheHits()
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.IncrementCacheMisses()
	}

	if err := s.limiter.wait(ctx); err != nil {
		return label, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRemoteCalls()
	}
	translated, err := s.remote.Translate(ctx, label, s.sourceLang, s.targetLang)
	if err != nil {
		// Fall back to the original label and leave the cache alone so the
		// next encounter retries the remote call.
		if s.metrics != nil {
			s.metrics.IncrementRemoteFailures()
		}
		s.logger.WarnContext(ctx, "translation failed, keeping original label",
			"label", label,
			"error", err,
		)
		return label, nil
	}

	if err := s.cache.Put(ctx, label, translated); err != nil {
		// The translation is still good; the next run just pays for it again.
		s.logger.WarnContext(ctx, "translation cache store failed",
			"label", label,
			"error", err,
		)
	}
	return translated, nil
}

// TranslateAll resolves each distinct label exactly once and returns the
// mapping. Labels that could not be translated map to themselves.
func (s *Service) TranslateAll(ctx context.Context, labels []string) (map[string]string, error) {
	out := make(map[string]string, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, done := out[label]; done {
			continue
		}
		translated, err := s.Translate(ctx, label)
		if err != nil {
			return nil, err
		}
		out[label] = translated
	}
	return out, nil
}

// limiter enforces a fixed delay between remote calls across all goroutines
// sharing the Service.
type limiter struct {
	mu    sync.Mutex
	last  time.Time
	delay time.Duration
}

func (l *limiter) wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	next := l.last.Add(l.delay)
	if next.Before(now) {
		next = now
	}
	l.last = next
	l.mu.Unlock()

	pause := time.Until(next)
	if pause <= 0 {
		return nil
	}
	select {
	case <-time.After(pause):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
