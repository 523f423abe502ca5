package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/tax"
)

// TaxSettingRepository defines the persistence contract for store tax
// configurations.
type TaxSettingRepository interface {
	// Add persists a new tax setting with its values atomically.
	Add(ctx context.Context, aggregate *tax.TaxSetting) error

	// Update persists changes to an existing tax setting.
	Update(ctx context.Context, aggregate *tax.TaxSetting) error

	// GetByStore retrieves the store's tax setting. A store has at most
	// one; errs.ObjectNotFoundError when none is configured.
	GetByStore(ctx context.Context, storeID kernel.StoreID) (*tax.TaxSetting, error)
}
