// Package lookups provides read-only GORM adapters over the catalog,
// inventory and customer projections. The order service does not own these
// tables; they are local projections kept current by upstream services.
package lookups

import "github.com/shopspring/decimal"

// LocationDTO represents one fulfillment location of a store. Priority
// orders locations for routing; inactive locations never receive work.
type LocationDTO struct {
	StoreID  int64 `gorm:"primaryKey;autoIncrement:false"`
	ID       int64 `gorm:"primaryKey;autoIncrement:false"`
	Name     string
	Priority int
	Active   bool
}

// TableName specifies the database table name for locations.
func (LocationDTO) TableName() string {
	return "locations"
}

// InventoryLevelDTO represents the available units of one variant at one
// location.
type InventoryLevelDTO struct {
	StoreID    int64 `gorm:"primaryKey;autoIncrement:false"`
	LocationID int64 `gorm:"primaryKey;autoIncrement:false"`
	VariantID  int64 `gorm:"primaryKey;autoIncrement:false"`
	Available  int
}

// TableName specifies the database table name for inventory levels.
func (InventoryLevelDTO) TableName() string {
	return "inventory_levels"
}

// VariantDTO represents the catalog metadata of one product variant.
type VariantDTO struct {
	StoreID            int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                 int64 `gorm:"primaryKey;autoIncrement:false"`
	ProductID          int64
	Title              string
	Price              decimal.Decimal `gorm:"type:numeric"`
	CurrencyCode       string
	CurrencyMinorUnits int32
	Taxable            bool
	RequiresShipping   bool
}

// TableName specifies the database table name for product variants.
func (VariantDTO) TableName() string {
	return "product_variants"
}

// CustomerDTO represents the customer projection used to verify customer
// references on orders.
type CustomerDTO struct {
	StoreID int64 `gorm:"primaryKey;autoIncrement:false"`
	ID      int64 `gorm:"primaryKey;autoIncrement:false"`
	Email   string
}

// TableName specifies the database table name for customers.
func (CustomerDTO) TableName() string {
	return "customers"
}
