package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

type brokenStore struct{}

func (brokenStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (brokenStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (brokenStore) Close() error                                      { return nil }

func TestIdempotentHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicates are skipped", func(t *testing.T) {
		inner := &recordingHandler{}
		h := NewIdempotentHandler(inner, cache.NewInMemoryIdempotencyStore(), time.Hour, zap.NewNop())
		e := newStageChangedEvent(t)

		require.NoError(t, h.Handle(ctx, e))
		require.NoError(t, h.Handle(ctx, e))
		require.NoError(t, h.Handle(ctx, newStageChangedEvent(t)))

		assert.Equal(t, 2, inner.count())
		assert.Equal(t, IdempotencyStats{Processed: 2, Duplicates: 1}, h.Stats())
	})

	t.Run("failure is not retried within ttl", func(t *testing.T) {
		inner := &recordingHandler{err: errors.New("insert failed")}
		h := NewIdempotentHandler(inner, cache.NewInMemoryIdempotencyStore(), 0, zap.NewNop())
		e := newStageChangedEvent(t)

		assert.Error(t, h.Handle(ctx, e))
		assert.NoError(t, h.Handle(ctx, e))
		assert.Equal(t, 1, inner.count())
		assert.Equal(t, int64(1), h.Stats().Failed)
	})

	t.Run("store outage processes anyway", func(t *testing.T) {
		inner := &recordingHandler{}
		h := NewIdempotentHandler(inner, brokenStore{}, time.Hour, zap.NewNop())
		e := newStageChangedEvent(t)

		require.NoError(t, h.Handle(ctx, e))
		require.NoError(t, h.Handle(ctx, e))
		assert.Equal(t, 2, inner.count())
	})

	t.Run("concurrent redelivery runs once", func(t *testing.T) {
		inner := &recordingHandler{}
		h := NewIdempotentHandler(inner, cache.NewInMemoryIdempotencyStore(), time.Hour, zap.NewNop())
		e := newStageChangedEvent(t)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = h.Handle(ctx, e)
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, inner.count())
		assert.Equal(t, int64(19), h.Stats().Duplicates)
	})

	t.Run("event types come from the wrapped handler", func(t *testing.T) {
		inner := &recordingHandler{types: []string{"deal.stage_changed"}}
		h := NewIdempotentHandler(inner, cache.NewInMemoryIdempotencyStore(), time.Hour, zap.NewNop())
		assert.Equal(t, []string{"deal.stage_changed"}, h.EventTypes())
	})
}
