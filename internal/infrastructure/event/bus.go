// Package event provides the in-process domain event bus.
//
// Events are dispatched synchronously after the publishing transaction has
// committed. A failing or panicking handler is logged and never fails the
// request that produced the event.
package event

import (
	"context"
	"sync/atomic"

	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus implements shared.EventBus with synchronous in-process dispatch
type InMemoryEventBus struct {
	registry *handlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: newHandlerRegistry(),
		logger:   logger,
	}
}

// Publish hands each event to its handlers in subscription order.
// Events published while the bus is stopped are dropped with a warning.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		for _, e := range events {
			b.logger.Warn("event bus not running, event dropped",
				zap.String("event_type", e.EventType()),
				zap.String("event_id", e.EventID().String()),
			)
		}
		return nil
	}

	for _, e := range events {
		for _, handler := range b.registry.handlersFor(e.EventType()) {
			if err := b.dispatch(ctx, handler, e); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", e.EventType()),
					zap.String("event_id", e.EventID().String()),
					zap.String("tenant_id", e.TenantID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler; with no explicit types the handler's own EventTypes apply
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.unregister(handler)
}

// Start starts accepting events
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop stops accepting events
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", e.EventType()),
				zap.String("event_id", e.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, e)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
