// Package ports defines repository and infrastructure interfaces for the
// order management domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Every operation is scoped to the owning store; an aggregate is never
// visible outside its tenant.
type OrderRepository interface {
	// Add persists a new order aggregate with its owned entities in one
	// atomic write.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write
	// carries an optimistic version predicate; a stale version returns
	// errs.ConflictError and the caller may retry on a fresh load.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by store and identifier.
	Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*order.Order, error)

	// GetByIDs retrieves several orders of one store at once.
	GetByIDs(ctx context.Context, storeID kernel.StoreID, ids []kernel.ID) ([]*order.Order, error)

	// GetAllUnfulfilled retrieves the store's open orders that still have
	// fulfillable quantity.
	GetAllUnfulfilled(ctx context.Context, storeID kernel.StoreID) ([]*order.Order, error)
}
