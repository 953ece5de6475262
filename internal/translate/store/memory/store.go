// Package memory provides the in-memory translation cache used for
// single-process pipeline runs.
package memory

import (
	"context"
	"sync"
)

// Store is a map-backed translation cache. Safe for concurrent use so
// parallel enrichment batches can share it.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewStore creates an empty cache.
func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// NewSeededStore creates a cache pre-populated with the given translations.
func NewSeededStore(seed map[string]string) *Store {
	entries := make(map[string]string, len(seed))
	for k, v := range seed {
		entries[k] = v
	}
	return &Store{entries: entries}
}

func (s *Store) Get(ctx context.Context, label string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[label]
	return v, ok, nil
}

func (s *Store) Put(ctx context.Context, label, translated string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[label] = translated
	return nil
}

// Len returns the number of cached translations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
