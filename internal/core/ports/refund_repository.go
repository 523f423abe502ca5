package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/refund"
)

// RefundRepository defines the persistence contract for refund aggregates,
// scoped to the owning store.
type RefundRepository interface {
	// Add persists a new refund with its lines atomically.
	Add(ctx context.Context, aggregate *refund.Refund) error

	// Get retrieves a refund by store and identifier.
	Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*refund.Refund, error)

	// GetByOrderID retrieves every refund applied to an order.
	GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*refund.Refund, error)
}
