package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/services"
)

// InventoryLookup reads location stock snapshots for routing decisions.
// Implementations query the inventory service (or its local projection);
// the snapshot is advisory and routing never reserves stock.
type InventoryLookup interface {
	// StocksForVariants returns the store's locations that carry any of
	// the given variants, with priority and available units per variant.
	StocksForVariants(ctx context.Context, storeID kernel.StoreID, variantIDs []kernel.ID) ([]services.LocationStock, error)
}

// ProductLookup resolves variant metadata needed to materialize line items
// from edits and order creation.
type ProductLookup interface {
	// VariantsByIDs returns metadata keyed by variant identifier. Missing
	// variants are simply absent from the map; callers decide whether
	// absence is an error.
	VariantsByIDs(ctx context.Context, storeID kernel.StoreID, variantIDs []kernel.ID) (map[int64]services.VariantInfo, error)
}

// CustomerLookup verifies customer references attached to orders.
type CustomerLookup interface {
	// Exists reports whether the customer belongs to the store.
	Exists(ctx context.Context, storeID kernel.StoreID, customerID kernel.ID) (bool, error)
}
