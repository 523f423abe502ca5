package ports

import (
	"context"

	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/kernel"
)

// FulfillmentRepository defines the persistence contract for fulfillment
// aggregates, scoped to the owning store.
type FulfillmentRepository interface {
	// Add persists a new fulfillment with its lines atomically.
	Add(ctx context.Context, aggregate *fulfillment.Fulfillment) error

	// Update persists changes to an existing fulfillment.
	Update(ctx context.Context, aggregate *fulfillment.Fulfillment) error

	// Get retrieves a fulfillment by store and identifier.
	Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*fulfillment.Fulfillment, error)

	// GetByOrderID retrieves every fulfillment recorded for an order.
	GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*fulfillment.Fulfillment, error)
}
