package ports

import (
	"context"

	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
)

// FulfillmentOrderRepository defines the persistence contract for
// fulfillment order aggregates, scoped to the owning store.
type FulfillmentOrderRepository interface {
	// Add persists a new fulfillment order with its lines atomically.
	Add(ctx context.Context, aggregate *fulfillmentorder.FulfillmentOrder) error

	// Update persists changes to an existing fulfillment order.
	Update(ctx context.Context, aggregate *fulfillmentorder.FulfillmentOrder) error

	// Get retrieves a fulfillment order by store and identifier.
	Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*fulfillmentorder.FulfillmentOrder, error)

	// GetByOrderID retrieves every fulfillment order created for an order.
	GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*fulfillmentorder.FulfillmentOrder, error)
}
