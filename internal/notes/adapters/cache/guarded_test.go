package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/cache"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/resilience"
)

func TestGuardedCache(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	breaker := resilience.NewCircuitBreaker("notes-cache", resilience.CircuitBreakerConfig{
		ErrorThreshold:   2,
		Timeout:          time.Hour,
		SuccessThreshold: 1,
	})
	guarded := cache.NewGuardedCache(cache.NewNoteCache(client, 0), breaker)

	note := resolvedNote(t)
	require.NoError(t, guarded.Set(ctx, note))
	got, err := guarded.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Title, got.Title)

	t.Run("corrupt entry does not trip the breaker", func(t *testing.T) {
		require.NoError(t, srv.Set(cache.Key(3), "{not json"))
		for range 3 {
			_, err := guarded.Get(ctx, 3)
			require.Error(t, err)
		}
		assert.Equal(t, resilience.StateClosed, breaker.State())
	})

	t.Run("outage opens the breaker", func(t *testing.T) {
		srv.Close()

		for range 2 {
			_, err := guarded.Get(ctx, note.ID)
			assert.ErrorIs(t, err, entities.ErrConnectivity)
		}
		assert.Equal(t, resilience.StateOpen, breaker.State())

		_, err := guarded.Get(ctx, note.ID)
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
		assert.ErrorIs(t, guarded.Delete(ctx, note.ID), resilience.ErrCircuitOpen)
	})
}
