package cache

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/cache"
	"notekeeper/internal/notes/resilience"
)

// GuardedCache пропускает обращения к кэшу через circuit breaker: пока Redis
// недоступен, вызовы сразу возвращают resilience.ErrCircuitOpen и не ждут
// таймаута соединения. Размыкают breaker только ошибки связи.
type GuardedCache struct {
	inner   cache.NoteCache
	breaker *resilience.CircuitBreaker
}

var _ cache.NoteCache = (*GuardedCache)(nil)

// NewGuardedCache оборачивает inner.
func NewGuardedCache(inner cache.NoteCache, breaker *resilience.CircuitBreaker) *GuardedCache {
	return &GuardedCache{inner: inner, breaker: breaker}
}

func (g *GuardedCache) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if !g.breaker.AllowRequest(ctx) {
		return resilience.ErrCircuitOpen
	}
	err := fn(ctx)
	if resilience.IsConnectivity(err) {
		g.breaker.RecordResult(ctx, err)
	} else {
		g.breaker.RecordResult(ctx, nil)
	}
	return err
}

// Get возвращает заметку из кэша или nil при промахе.
func (g *GuardedCache) Get(ctx context.Context, id int64) (*entities.Note, error) {
	var note *entities.Note
	err := g.call(ctx, func(ctx context.Context) error {
		var err error
		note, err = g.inner.Get(ctx, id)
		return err
	})
	return note, err
}

// Set кладет заметку в кэш.
func (g *GuardedCache) Set(ctx context.Context, note *entities.Note) error {
	return g.call(ctx, func(ctx context.Context) error {
		return g.inner.Set(ctx, note)
	})
}

// Delete удаляет заметки из кэша.
func (g *GuardedCache) Delete(ctx context.Context, ids ...int64) error {
	return g.call(ctx, func(ctx context.Context) error {
		return g.inner.Delete(ctx, ids...)
	})
}
