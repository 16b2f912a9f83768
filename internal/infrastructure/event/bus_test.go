package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

func newStageChangedEvent(t *testing.T) *deal.DealStageChangedEvent {
	t.Helper()
	d, err := deal.NewDeal(uuid.New(), 1, deal.StageK, deal.Input{Name: "Project Falcon"})
	require.NoError(t, err)
	_, err = d.ChangeStage(deal.StageF, uuid.New())
	require.NoError(t, err)
	return deal.NewDealStageChangedEvent(d, deal.StageK, uuid.New())
}

type recordingHandler struct {
	mu      sync.Mutex
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, e)
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by event type", func(t *testing.T) {
		bus := startedBus(t)
		stage := &recordingHandler{types: []string{deal.EventTypeDealStageChanged}}
		other := &recordingHandler{types: []string{"deal.deleted"}}
		bus.Subscribe(stage)
		bus.Subscribe(other)

		e := newStageChangedEvent(t)
		require.NoError(t, bus.Publish(ctx, e, newStageChangedEvent(t)))

		assert.Equal(t, 2, stage.count())
		assert.Equal(t, 0, other.count())
		assert.Equal(t, e, stage.handled[0])
	})

	t.Run("explicit types override handler types", func(t *testing.T) {
		bus := startedBus(t)
		h := &recordingHandler{types: []string{"deal.deleted"}}
		bus.Subscribe(h, deal.EventTypeDealStageChanged)

		require.NoError(t, bus.Publish(ctx, newStageChangedEvent(t)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("wildcard receives everything", func(t *testing.T) {
		bus := startedBus(t)
		h := &recordingHandler{}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, newStageChangedEvent(t)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("failing and panicking handlers do not stop dispatch", func(t *testing.T) {
		bus := startedBus(t)
		failing := &recordingHandler{types: []string{deal.EventTypeDealStageChanged}, err: errors.New("smtp down")}
		panicking := &recordingHandler{types: []string{deal.EventTypeDealStageChanged}, panics: true}
		healthy := &recordingHandler{types: []string{deal.EventTypeDealStageChanged}}
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newStageChangedEvent(t)))
		assert.Equal(t, 1, failing.count())
		assert.Equal(t, 1, panicking.count())
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("unsubscribe", func(t *testing.T) {
		bus := startedBus(t)
		h := &recordingHandler{types: []string{deal.EventTypeDealStageChanged}}
		bus.Subscribe(h)
		require.NoError(t, bus.Publish(ctx, newStageChangedEvent(t)))

		bus.Unsubscribe(h)
		require.NoError(t, bus.Publish(ctx, newStageChangedEvent(t)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("stopped bus drops events", func(t *testing.T) {
		bus := startedBus(t)
		h := &recordingHandler{types: []string{deal.EventTypeDealStageChanged}}
		bus.Subscribe(h)
		require.NoError(t, bus.Stop(ctx))

		require.NoError(t, bus.Publish(ctx, newStageChangedEvent(t)))
		assert.Equal(t, 0, h.count())
	})
}
