// Package fulfillmentorderrepo provides data transfer objects and mapping
// functions for fulfillment order persistence.
package fulfillmentorderrepo

import (
	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
)

// FulfillmentOrderDTO represents the database structure for persisting
// fulfillment order aggregates. The destination snapshot is embedded in the
// same row since it never changes after routing.
type FulfillmentOrderDTO struct {
	StoreID            int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                 int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID            int64 `gorm:"index"`
	AssignedLocationID int64
	Status             int `gorm:"index"`
	DeliveryMethod     int
	Destination        DestinationDTO `gorm:"embedded;embeddedPrefix:destination_"`

	LineItems []LineItemDTO `gorm:"foreignKey:StoreID,FulfillmentOrderID;references:StoreID,ID"`
}

// TableName specifies the database table name for fulfillment orders.
func (FulfillmentOrderDTO) TableName() string {
	return "fulfillment_orders"
}

// DestinationDTO represents the embedded shipping destination snapshot.
type DestinationDTO struct {
	Name         string
	Address1     string
	Address2     string
	City         string
	ProvinceCode string
	CountryCode  string
	Zip          string
	Phone        string
}

// LineItemDTO represents one line of requested work within a fulfillment
// order.
type LineItemDTO struct {
	StoreID            int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                 int64 `gorm:"primaryKey;autoIncrement:false"`
	FulfillmentOrderID int64 `gorm:"index"`
	OrderLineItemID    int64
	VariantID          *int64
	OrderableQuantity  int
	RemainingQuantity  int
}

// TableName specifies the database table name for fulfillment order lines.
func (LineItemDTO) TableName() string {
	return "fulfillment_order_line_items"
}

// fromDomain converts a fulfillment order aggregate to its database
// representation.
func fromDomain(fo *fulfillmentorder.FulfillmentOrder) FulfillmentOrderDTO {
	destination := fo.Destination()
	dto := FulfillmentOrderDTO{
		ID:                 fo.ID().Int64(),
		StoreID:            fo.StoreID().Int64(),
		OrderID:            fo.OrderID().Int64(),
		AssignedLocationID: fo.AssignedLocationID().Int64(),
		Status:             int(fo.Status()),
		DeliveryMethod:     int(fo.ExpectedDeliveryMethod()),
		Destination: DestinationDTO{
			Name:         destination.Name(),
			Address1:     destination.Address1(),
			Address2:     destination.Address2(),
			City:         destination.City(),
			ProvinceCode: destination.ProvinceCode(),
			CountryCode:  destination.CountryCode(),
			Zip:          destination.Zip(),
			Phone:        destination.Phone(),
		},
	}

	for _, li := range fo.LineItems() {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:                 li.ID().Int64(),
			FulfillmentOrderID: dto.ID,
			StoreID:            dto.StoreID,
			OrderLineItemID:    li.OrderLineItemID().Int64(),
			VariantID:          idValue(li.VariantID()),
			OrderableQuantity:  li.OrderableQuantity(),
			RemainingQuantity:  li.RemainingQuantity(),
		})
	}

	return dto
}

// toDomain converts a database DTO to a fulfillment order aggregate.
func toDomain(dto FulfillmentOrderDTO) (*fulfillmentorder.FulfillmentOrder, error) {
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
	locationID, err := kernel.NewID(dto.AssignedLocationID)
	if err != nil {
		return nil, err
	}

	lineItems := make([]*fulfillmentorder.LineItem, 0, len(dto.LineItems))
	for _, li := range dto.LineItems {
		restored, liErr := lineItemToDomain(li)
		if liErr != nil {
			return nil, liErr
		}
		lineItems = append(lineItems, restored)
	}

	return fulfillmentorder.RestoreFulfillmentOrder(
		id,
		storeID,
		orderID,
		locationID,
		fulfillmentorder.Status(dto.Status),
		fulfillmentorder.ExpectedDeliveryMethod(dto.DeliveryMethod),
		fulfillmentorder.NewDestination(
			dto.Destination.Name,
			dto.Destination.Address1,
			dto.Destination.Address2,
			dto.Destination.City,
			dto.Destination.ProvinceCode,
			dto.Destination.CountryCode,
			dto.Destination.Zip,
			dto.Destination.Phone,
		),
		lineItems,
	)
}

func lineItemToDomain(dto LineItemDTO) (*fulfillmentorder.LineItem, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderLineItemID, err := kernel.NewID(dto.OrderLineItemID)
	if err != nil {
		return nil, err
	}
	variantID, err := idFromValue(dto.VariantID)
	if err != nil {
		return nil, err
	}
	return fulfillmentorder.RestoreLineItem(id, orderLineItemID, variantID,
		dto.OrderableQuantity, dto.RemainingQuantity)
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
