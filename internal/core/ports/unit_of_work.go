package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
//
// Domain events raised by tracked aggregates are written to the outbox as
// part of Commit, inside the same transaction as the state change. Events
// are never visible to consumers before the state they describe.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit stages the pending events of every tracked aggregate into the
	// outbox and commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// Track registers an event source so its pending events are drained
	// into the outbox on Commit.
	Track(source EventSource)

	// OrderRepository returns an OrderRepository instance bound to the current transaction.
	// Repository will use the transaction started by Begin().
	OrderRepository() OrderRepository

	// FulfillmentOrderRepository returns a FulfillmentOrderRepository bound to the current transaction.
	FulfillmentOrderRepository() FulfillmentOrderRepository

	// FulfillmentRepository returns a FulfillmentRepository bound to the current transaction.
	FulfillmentRepository() FulfillmentRepository

	// OrderEditRepository returns an OrderEditRepository bound to the current transaction.
	OrderEditRepository() OrderEditRepository

	// RefundRepository returns a RefundRepository bound to the current transaction.
	RefundRepository() RefundRepository

	// TaxSettingRepository returns a TaxSettingRepository bound to the current transaction.
	TaxSettingRepository() TaxSettingRepository

	// IDGenerator returns an IDGenerator bound to the current transaction,
	// so identifier counters advance atomically with the aggregate writes.
	IDGenerator() IDGenerator
}

// EventSource is an aggregate that buffers domain events until persistence.
type EventSource interface {
	PendingEvents() []kernel.DomainEvent
	ClearPendingEvents()
}
