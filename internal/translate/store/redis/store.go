// Package redis provides the Redis-backed translation cache. Use it when the
// cache should survive across pipeline runs or be shared between processes.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "translate:category:"

// Store persists category translations in Redis under a fixed key prefix.
// Entries carry no TTL: translations do not go stale, and re-seeding on the
// next run overwrites them anyway.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing Redis client. The client lifecycle is managed
// externally.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Seed stores the given translations, overwriting existing entries. Uses a
// pipeline so seeding stays a single round trip.
func (s *Store) Seed(ctx context.Context, seed map[string]string) error {
	if len(seed) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for label, translated := range seed {
		pipe.Set(ctx, keyPrefix+label, translated, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("seed translation cache: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, label string) (string, bool, error) {
	v, err := s.client.Get(ctx, keyPrefix+label).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get translation: %w", err)
	}
	return v, true, nil
}

func (s *Store) Put(ctx context.Context, label, translated string) error {
	if err := s.client.Set(ctx, keyPrefix+label, translated, 0).Err(); err != nil {
		return fmt.Errorf("put translation: %w", err)
	}
	return nil
}
