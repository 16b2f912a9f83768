package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate. Events are
// raised inside the aggregate and published after the write commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// EventEnvelope carries the metadata every event has. Concrete events
// embed it and add their payload.
type EventEnvelope struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	At        time.Time `json:"occurred_at"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	Tenant    uuid.UUID `json:"tenant_id"`
}

func (e *EventEnvelope) EventID() uuid.UUID     { return e.ID }
func (e *EventEnvelope) EventType() string      { return e.Type }
func (e *EventEnvelope) OccurredAt() time.Time  { return e.At }
func (e *EventEnvelope) AggregateID() uuid.UUID { return e.Aggregate }
func (e *EventEnvelope) AggregateType() string  { return e.Kind }
func (e *EventEnvelope) TenantID() uuid.UUID    { return e.Tenant }

// NewEventEnvelope stamps a fresh event ID and the current time
func NewEventEnvelope(eventType, aggregateType string, aggregateID, tenantID uuid.UUID) EventEnvelope {
	return EventEnvelope{
		ID:        uuid.New(),
		Type:      eventType,
		At:        time.Now(),
		Aggregate: aggregateID,
		Kind:      aggregateType,
		Tenant:    tenantID,
	}
}

// EventHandler reacts to the event types it lists
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher delivers events to their handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is a publisher with handler registration and a lifecycle.
// Subscribe without event types uses the handler's own EventTypes.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// IdempotencyStore remembers processed event IDs for a while
type IdempotencyStore interface {
	// MarkProcessed reports true when eventID was not seen before
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}
