// Package editrepo provides data transfer objects and mapping functions for
// order edit persistence.
package editrepo

import (
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/orderedit"

	"github.com/shopspring/decimal"
)

// OrderEditDTO represents the database structure for persisting order edit
// sessions.
type OrderEditDTO struct {
	StoreID int64 `gorm:"primaryKey;autoIncrement:false"`
	ID      int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID int64 `gorm:"index"`
	Status  int   `gorm:"index"`

	Changes []ChangeDTO `gorm:"foreignKey:StoreID,OrderEditID;references:StoreID,ID"`
}

// TableName specifies the database table name for order edits.
func (OrderEditDTO) TableName() string {
	return "order_edits"
}

// ChangeDTO represents one staged change of an edit session. The row is a
// union of every change kind's fields; unused columns stay NULL or zero.
// Prices keep their own currency columns since a change can be staged
// before the order is ever loaded.
type ChangeDTO struct {
	StoreID           int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderEditID       int64 `gorm:"index"`
	Kind              int
	VariantID         *int64
	LocationID        *int64
	LineItemID        *int64
	Title             string
	PriceAmount       decimal.Decimal `gorm:"type:numeric"`
	PriceCurrencyCode string
	PriceMinorUnits   int32
	Quantity          int
	Taxable           bool
	RequiresShipping  bool
	AllowDuplicate    bool
	Restock           bool
	FixedValue        *decimal.Decimal `gorm:"type:numeric"`
	PercentValue      *decimal.Decimal `gorm:"type:numeric"`
}

// TableName specifies the database table name for order edit changes.
func (ChangeDTO) TableName() string {
	return "order_edit_changes"
}

// fromDomain converts an order edit aggregate to its database
// representation.
func fromDomain(edit *orderedit.OrderEdit) OrderEditDTO {
	dto := OrderEditDTO{
		ID:      edit.ID().Int64(),
		StoreID: edit.StoreID().Int64(),
		OrderID: edit.OrderID().Int64(),
		Status:  int(edit.Status()),
	}

	for _, change := range edit.Changes() {
		changeDTO := ChangeDTO{
			ID:               change.ID().Int64(),
			OrderEditID:      dto.ID,
			StoreID:          dto.StoreID,
			Kind:             int(change.Kind()),
			VariantID:        idValue(change.VariantID()),
			LocationID:       idValue(change.LocationID()),
			LineItemID:       idValue(change.LineItemID()),
			Title:            change.Title(),
			Quantity:         change.Quantity(),
			Taxable:          change.Taxable(),
			RequiresShipping: change.RequiresShipping(),
			AllowDuplicate:   change.AllowDuplicate(),
			Restock:          change.Restock(),
			FixedValue:       change.FixedValue(),
			PercentValue:     change.PercentValue(),
		}
		if price := change.Price(); price.Validate() == nil {
			changeDTO.PriceAmount = price.Amount()
			changeDTO.PriceCurrencyCode = price.Currency().Code()
			changeDTO.PriceMinorUnits = price.Currency().MinorUnits()
		}
		dto.Changes = append(dto.Changes, changeDTO)
	}

	return dto
}

// toDomain converts a database DTO to an order edit aggregate.
func toDomain(dto OrderEditDTO) (*orderedit.OrderEdit, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.NewStoreID(dto.StoreID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.NewID(dto.OrderID)
	if err != nil {
		return nil, err
	}

	changes := make([]*orderedit.Change, 0, len(dto.Changes))
	for _, changeDTO := range dto.Changes {
		change, changeErr := changeToDomain(changeDTO)
		if changeErr != nil {
			return nil, changeErr
		}
		changes = append(changes, change)
	}

	return orderedit.RestoreOrderEdit(id, storeID, orderID, orderedit.Status(dto.Status), changes)
}

func changeToDomain(dto ChangeDTO) (*orderedit.Change, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	variantID, err := idFromValue(dto.VariantID)
	if err != nil {
		return nil, err
	}
	locationID, err := idFromValue(dto.LocationID)
	if err != nil {
		return nil, err
	}
	lineItemID, err := idFromValue(dto.LineItemID)
	if err != nil {
		return nil, err
	}

	var price kernel.Money
	if dto.PriceCurrencyCode != "" {
		currency, curErr := kernel.NewCurrency(dto.PriceCurrencyCode, dto.PriceMinorUnits)
		if curErr != nil {
			return nil, curErr
		}
		if price, curErr = kernel.NewMoney(dto.PriceAmount, currency); curErr != nil {
			return nil, curErr
		}
	}

	return orderedit.RestoreChange(
		id,
		orderedit.ChangeKind(dto.Kind),
		variantID, locationID, lineItemID,
		dto.Title,
		price,
		dto.Quantity,
		dto.Taxable, dto.RequiresShipping, dto.AllowDuplicate, dto.Restock,
		dto.FixedValue, dto.PercentValue,
	)
}

func idValue(id *kernel.ID) *int64 {
	if id == nil {
		return nil
	}
	value := id.Int64()
	return &value
}

func idFromValue(value *int64) (*kernel.ID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := kernel.NewID(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
