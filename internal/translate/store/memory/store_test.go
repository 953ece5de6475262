package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "label", "translated"))

	v, ok, err := s.Get(ctx, "label")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "translated", v)
	assert.Equal(t, 1, s.Len())
}

func TestNewSeededStore_CopiesSeed(t *testing.T) {
	ctx := context.Background()
	seed := map[string]string{"a": "1"}
	s := NewSeededStore(seed)

	// Mutating the seed map afterwards must not affect the store.
	seed["b"] = "2"

	_, ok, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			_ = s.Put(ctx, key, key)
			_, _, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
}
