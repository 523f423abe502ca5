package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/orderedit"
)

// OrderEditRepository defines the persistence contract for order edit
// sessions, scoped to the owning store.
type OrderEditRepository interface {
	// Add persists a new edit session.
	Add(ctx context.Context, aggregate *orderedit.OrderEdit) error

	// Update persists newly staged changes and status transitions.
	Update(ctx context.Context, aggregate *orderedit.OrderEdit) error

	// Get retrieves an edit session by store and identifier.
	Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*orderedit.OrderEdit, error)

	// GetOpenByOrderID retrieves the open edit sessions for an order.
	GetOpenByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*orderedit.OrderEdit, error)
}
