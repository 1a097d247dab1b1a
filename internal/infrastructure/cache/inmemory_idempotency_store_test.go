package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "posting:abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	again, err := store.MarkProcessed(ctx, "posting:abc", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := store.MarkProcessed(ctx, "posting:def", time.Hour)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "posting:short", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, fresh)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "posting:short")
	require.NoError(t, err)
	assert.False(t, processed)

	refreshed, err := store.MarkProcessed(ctx, "posting:short", time.Hour)
	require.NoError(t, err)
	assert.True(t, refreshed)
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "posting:retry", time.Hour)
	require.NoError(t, err)
	require.True(t, fresh)

	require.NoError(t, store.Release(ctx, "posting:retry"))

	processed, err := store.IsProcessed(ctx, "posting:retry")
	require.NoError(t, err)
	assert.False(t, processed)

	again, err := store.MarkProcessed(ctx, "posting:retry", time.Hour)
	require.NoError(t, err)
	assert.True(t, again)

	// releasing an unknown key is a no-op
	assert.NoError(t, store.Release(ctx, "posting:unknown"))
}

func TestInMemoryIdempotencyStore_Concurrent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	var freshCount int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := store.MarkProcessed(ctx, "posting:race", time.Hour)
			require.NoError(t, err)
			if fresh {
				mu.Lock()
				freshCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), freshCount, "only one worker should win")
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.MarkProcessed(ctx, fmt.Sprintf("posting:%d", i), time.Hour)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
