package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a processed event ID is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStats is a snapshot of an IdempotentHandler's counters
type IdempotencyStats struct {
	Processed  int64 `json:"processed"`
	Duplicates int64 `json:"duplicates"`
	Failed     int64 `json:"failed"`
}

// IdempotentHandler runs the wrapped handler at most once per event ID
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger

	processed  atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
}

// NewIdempotentHandler wraps handler; a non-positive ttl uses DefaultIdempotencyTTL
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotentHandler{handler: handler, store: store, ttl: ttl, logger: logger}
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle marks the event processed before running the handler.
// If the store is unreachable the event is processed anyway.
func (h *IdempotentHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	eventID := e.EventID().String()

	isNew, err := h.store.MarkProcessed(ctx, eventID, h.ttl)
	switch {
	case err != nil:
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("event_id", eventID),
			zap.String("event_type", e.EventType()),
			zap.Error(err),
		)
	case !isNew:
		h.duplicates.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", eventID),
			zap.String("event_type", e.EventType()),
		)
		return nil
	}

	// the key stays set on failure so a redelivery within ttl is not retried
	if err := h.handler.Handle(ctx, e); err != nil {
		h.failed.Add(1)
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns the handler's counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed:  h.processed.Load(),
		Duplicates: h.duplicates.Load(),
		Failed:     h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
