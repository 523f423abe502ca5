// Package refundrepo provides data transfer objects and mapping functions
// for refund persistence.
package refundrepo

import (
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/refund"

	"github.com/shopspring/decimal"
)

// RefundDTO represents the database structure for persisting refunds.
// The ledger transactions backing the refund live in the order's tables;
// the refund row keeps their identifiers as JSON.
type RefundDTO struct {
	StoreID            int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                 int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID            int64 `gorm:"index"`
	Note               string
	ShippingRefund     decimal.Decimal `gorm:"type:numeric"`
	CurrencyCode       string
	CurrencyMinorUnits int32
	TransactionIDs     []int64 `gorm:"serializer:json;type:jsonb"`

	LineItems []LineItemDTO `gorm:"foreignKey:StoreID,RefundID;references:StoreID,ID"`
}

// TableName specifies the database table name for refunds.
func (RefundDTO) TableName() string {
	return "refunds"
}

// LineItemDTO represents one refunded line.
type LineItemDTO struct {
	StoreID         int64 `gorm:"primaryKey;autoIncrement:false"`
	ID              int64 `gorm:"primaryKey;autoIncrement:false"`
	RefundID        int64 `gorm:"index"`
	OrderLineItemID int64
	Quantity        int
	RestockType     int
	LocationID      *int64
	Amount          decimal.Decimal `gorm:"type:numeric"`
}

// TableName specifies the database table name for refund line items.
func (LineItemDTO) TableName() string {
	return "refund_line_items"
}

// fromDomain converts a refund aggregate to its database representation.
func fromDomain(r *refund.Refund) RefundDTO {
	dto := RefundDTO{
		ID:                 r.ID().Int64(),
		StoreID:            r.StoreID().Int64(),
		OrderID:            r.OrderID().Int64(),
		Note:               r.Note(),
		ShippingRefund:     r.ShippingRefund().Amount(),
		CurrencyCode:       r.ShippingRefund().Currency().Code(),
		CurrencyMinorUnits: r.ShippingRefund().Currency().MinorUnits(),
	}

	for _, txID := range r.TransactionIDs() {
		dto.TransactionIDs = append(dto.TransactionIDs, txID.Int64())
	}

	for _, li := range r.LineItems() {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:              li.ID().Int64(),
			RefundID:        dto.ID,
			StoreID:         dto.StoreID,
			OrderLineItemID: li.OrderLineItemID().Int64(),
			Quantity:        li.Quantity(),
			RestockType:     int(li.RestockType()),
			LocationID:      idValue(li.LocationID()),
			Amount:          li.Amount().Amount(),
		})
	}

	return dto
}

// toDomain converts a database DTO to a refund aggregate.
func toDomain(dto RefundDTO) (*refund.Refund, error) {
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
	currency, err := kernel.NewCurrency(dto.CurrencyCode, dto.CurrencyMinorUnits)
	if err != nil {
		return nil, err
	}
	shippingRefund, err := kernel.NewMoney(dto.ShippingRefund, currency)
	if err != nil {
		return nil, err
	}

	lineItems := make([]*refund.LineItem, 0, len(dto.LineItems))
	for _, li := range dto.LineItems {
		restored, liErr := lineItemToDomain(li, currency)
		if liErr != nil {
			return nil, liErr
		}
		lineItems = append(lineItems, restored)
	}

	transactionIDs := make([]kernel.ID, 0, len(dto.TransactionIDs))
	for _, value := range dto.TransactionIDs {
		txID, txErr := kernel.NewID(value)
		if txErr != nil {
			return nil, txErr
		}
		transactionIDs = append(transactionIDs, txID)
	}

	return refund.RestoreRefund(id, storeID, orderID, dto.Note, lineItems, shippingRefund, transactionIDs)
}

func lineItemToDomain(dto LineItemDTO, currency kernel.Currency) (*refund.LineItem, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderLineItemID, err := kernel.NewID(dto.OrderLineItemID)
	if err != nil {
		return nil, err
	}
	locationID, err := idFromValue(dto.LocationID)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount, currency)
	if err != nil {
		return nil, err
	}
	return refund.RestoreLineItem(id, orderLineItemID, dto.Quantity,
		refund.RestockType(dto.RestockType), locationID, amount)
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
