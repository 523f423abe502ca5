package kernel

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is an immutable fact recorded during an aggregate state change.
// Events are buffered in memory on the aggregate that produced them and are
// drained for asynchronous dispatch only after the surrounding unit of work
// has durably committed. Events of failed operations are discarded.
type DomainEvent interface {
	// EventID uniquely identifies this event instance for deduplication
	// by at-least-once consumers.
	EventID() uuid.UUID

	// EventName returns the dotted event name, e.g. "order.created".
	EventName() string

	// StoreID returns the tenant the event belongs to.
	StoreID() StoreID

	// AggregateID returns the identifier of the aggregate that emitted the event.
	AggregateID() ID

	// OccurredAt returns the time the event was recorded.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by every domain event. Aggregate
// packages embed it in their concrete event types.
type BaseEvent struct {
	eventID     uuid.UUID
	name        string
	storeID     StoreID
	aggregateID ID
	occurredAt  time.Time
}

// NewBaseEvent creates the shared part of a domain event with a fresh
// event id and the current timestamp.
func NewBaseEvent(name string, storeID StoreID, aggregateID ID) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New(),
		name:        name,
		storeID:     storeID,
		aggregateID: aggregateID,
		occurredAt:  time.Now().UTC(),
	}
}

// EventID returns the unique identifier of the event instance.
func (e BaseEvent) EventID() uuid.UUID {
	return e.eventID
}

// EventName returns the dotted event name.
func (e BaseEvent) EventName() string {
	return e.name
}

// StoreID returns the tenant the event belongs to.
func (e BaseEvent) StoreID() StoreID {
	return e.storeID
}

// AggregateID returns the identifier of the emitting aggregate.
func (e BaseEvent) AggregateID() ID {
	return e.aggregateID
}

// OccurredAt returns when the event was recorded.
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}
