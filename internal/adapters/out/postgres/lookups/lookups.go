package lookups

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/services"

	"gorm.io/gorm"
)

// GormInventoryLookup implements ports.InventoryLookup over the inventory
// projection tables.
type GormInventoryLookup struct {
	db *gorm.DB
}

// NewGormInventoryLookup creates a new GORM inventory lookup.
func NewGormInventoryLookup(db *gorm.DB) *GormInventoryLookup {
	return &GormInventoryLookup{db: db}
}

// StocksForVariants returns the store's active locations carrying any of the
// given variants, ordered by routing priority. Locations without stock for
// any requested variant are omitted.
func (l *GormInventoryLookup) StocksForVariants(
	ctx context.Context,
	storeID kernel.StoreID,
	variantIDs []kernel.ID,
) ([]services.LocationStock, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	if len(variantIDs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(variantIDs))
	for _, variantID := range variantIDs {
		ids = append(ids, variantID.Int64())
	}

	var locations []LocationDTO
	err := l.db.WithContext(ctx).
		Where("store_id = ? AND active", storeID.Int64()).
		Order("priority ASC, id ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}

	var levels []InventoryLevelDTO
	err = l.db.WithContext(ctx).
		Where("store_id = ? AND variant_id IN ? AND available > 0", storeID.Int64(), ids).
		Find(&levels).Error
	if err != nil {
		return nil, err
	}

	availableByLocation := make(map[int64]map[int64]int)
	for _, level := range levels {
		if availableByLocation[level.LocationID] == nil {
			availableByLocation[level.LocationID] = make(map[int64]int)
		}
		availableByLocation[level.LocationID][level.VariantID] = level.Available
	}

	stocks := make([]services.LocationStock, 0, len(locations))
	for _, location := range locations {
		available, ok := availableByLocation[location.ID]
		if !ok {
			continue
		}
		locationID, idErr := kernel.NewID(location.ID)
		if idErr != nil {
			return nil, idErr
		}
		stocks = append(stocks, services.LocationStock{
			LocationID: locationID,
			Priority:   location.Priority,
			Available:  available,
		})
	}

	return stocks, nil
}

// GormProductLookup implements ports.ProductLookup over the catalog
// projection.
type GormProductLookup struct {
	db *gorm.DB
}

// NewGormProductLookup creates a new GORM product lookup.
func NewGormProductLookup(db *gorm.DB) *GormProductLookup {
	return &GormProductLookup{db: db}
}

// VariantsByIDs returns variant metadata keyed by variant identifier.
// Variants unknown to the store are absent from the map.
func (l *GormProductLookup) VariantsByIDs(
	ctx context.Context,
	storeID kernel.StoreID,
	variantIDs []kernel.ID,
) (map[int64]services.VariantInfo, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	if len(variantIDs) == 0 {
		return map[int64]services.VariantInfo{}, nil
	}

	ids := make([]int64, 0, len(variantIDs))
	for _, variantID := range variantIDs {
		ids = append(ids, variantID.Int64())
	}

	var dtos []VariantDTO
	err := l.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID.Int64(), ids).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	variants := make(map[int64]services.VariantInfo, len(dtos))
	for _, dto := range dtos {
		info, infoErr := toVariantInfo(dto)
		if infoErr != nil {
			return nil, infoErr
		}
		variants[dto.ID] = info
	}

	return variants, nil
}

func toVariantInfo(dto VariantDTO) (services.VariantInfo, error) {
	variantID, err := kernel.NewID(dto.ID)
	if err != nil {
		return services.VariantInfo{}, err
	}
	productID, err := kernel.NewID(dto.ProductID)
	if err != nil {
		return services.VariantInfo{}, err
	}
	currency, err := kernel.NewCurrency(dto.CurrencyCode, dto.CurrencyMinorUnits)
	if err != nil {
		return services.VariantInfo{}, err
	}
	price, err := kernel.NewMoney(dto.Price, currency)
	if err != nil {
		return services.VariantInfo{}, err
	}

	return services.VariantInfo{
		VariantID:        variantID,
		ProductID:        productID,
		Title:            dto.Title,
		Price:            price,
		Taxable:          dto.Taxable,
		RequiresShipping: dto.RequiresShipping,
	}, nil
}

// GormCustomerLookup implements ports.CustomerLookup over the customer
// projection.
type GormCustomerLookup struct {
	db *gorm.DB
}

// NewGormCustomerLookup creates a new GORM customer lookup.
func NewGormCustomerLookup(db *gorm.DB) *GormCustomerLookup {
	return &GormCustomerLookup{db: db}
}

// Exists reports whether the customer belongs to the store.
func (l *GormCustomerLookup) Exists(
	ctx context.Context,
	storeID kernel.StoreID,
	customerID kernel.ID,
) (bool, error) {
	if err := storeID.Validate(); err != nil {
		return false, err
	}
	if err := customerID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := l.db.WithContext(ctx).Model(&CustomerDTO{}).
		Where("store_id = ? AND id = ?", storeID.Int64(), customerID.Int64()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
