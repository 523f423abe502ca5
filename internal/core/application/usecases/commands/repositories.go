// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"ordercore/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// EventTracker registers aggregates whose pending domain events must be
	// drained into the outbox when the transaction commits.
	EventTracker interface {
		Track(source ports.EventSource)
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// FulfillmentOrderRepoFactory provides access to the fulfillment order
	// repository within a transaction.
	FulfillmentOrderRepoFactory interface {
		FulfillmentOrderRepository() ports.FulfillmentOrderRepository
	}

	// FulfillmentRepoFactory provides access to the fulfillment repository
	// within a transaction.
	FulfillmentRepoFactory interface {
		FulfillmentRepository() ports.FulfillmentRepository
	}

	// OrderEditRepoFactory provides access to the order edit repository
	// within a transaction.
	OrderEditRepoFactory interface {
		OrderEditRepository() ports.OrderEditRepository
	}

	// RefundRepoFactory provides access to the refund repository within a transaction.
	RefundRepoFactory interface {
		RefundRepository() ports.RefundRepository
	}

	// TaxSettingRepoFactory provides access to the tax setting repository
	// within a transaction.
	TaxSettingRepoFactory interface {
		TaxSettingRepository() ports.TaxSettingRepository
	}

	// IDGeneratorFactory provides the identifier generator bound to the
	// current transaction, so counter advances roll back with the write.
	IDGeneratorFactory interface {
		IDGenerator() ports.IDGenerator
	}

	// OrderUoW manages transactions for order-centric operations that also
	// consult the store's tax configuration.
	OrderUoW interface {
		TxManager
		EventTracker
		OrderRepoFactory
		TaxSettingRepoFactory
		IDGeneratorFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RoutingUoW manages transactions spanning orders and their fulfillment
	// orders. Used by routing and cancellation, which touch both.
	RoutingUoW interface {
		TxManager
		EventTracker
		OrderRepoFactory
		FulfillmentOrderRepoFactory
		IDGeneratorFactory
	}

	// RoutingUoWFactory creates new routing unit of work instances.
	RoutingUoWFactory interface {
		Create() RoutingUoW
	}

	// FulfillmentUoW manages transactions that record fulfillment work:
	// the order, the drained fulfillment order, and the new fulfillment.
	FulfillmentUoW interface {
		TxManager
		EventTracker
		OrderRepoFactory
		FulfillmentOrderRepoFactory
		FulfillmentRepoFactory
		IDGeneratorFactory
	}

	// FulfillmentUoWFactory creates new fulfillment unit of work instances.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// EditUoW manages transactions spanning an order and its edit sessions.
	EditUoW interface {
		TxManager
		EventTracker
		OrderRepoFactory
		OrderEditRepoFactory
		TaxSettingRepoFactory
		IDGeneratorFactory
	}

	// EditUoWFactory creates new edit unit of work instances.
	EditUoWFactory interface {
		Create() EditUoW
	}

	// RefundUoW manages transactions spanning an order and its refunds.
	RefundUoW interface {
		TxManager
		EventTracker
		OrderRepoFactory
		RefundRepoFactory
		IDGeneratorFactory
	}

	// RefundUoWFactory creates new refund unit of work instances.
	RefundUoWFactory interface {
		Create() RefundUoW
	}

	// TaxUoW manages transactions for tax configuration changes.
	TaxUoW interface {
		TxManager
		TaxSettingRepoFactory
		IDGeneratorFactory
	}

	// TaxUoWFactory creates new tax unit of work instances.
	TaxUoWFactory interface {
		Create() TaxUoW
	}
)
