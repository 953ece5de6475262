package translate

import "context"

//go:generate mockgen -source=interfaces.go -destination=../../mocks/translate/remote_mock.go -package=translatemocks

// Cache stores category translations for the duration of (at least) one
// pipeline run. Implementations must be safe for concurrent readers with a
// single logical writer.
type Cache interface {
	// Get returns the cached translation and whether the label was present.
	Get(ctx context.Context, label string) (string, bool, error)
	// Put stores a successful translation. Failures are never stored.
	Put(ctx context.Context, label, translated string) error
}

// Remote is the external machine-translation collaborator. It is assumed
// network-bound, rate-limited, and fallible.
type Remote interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
