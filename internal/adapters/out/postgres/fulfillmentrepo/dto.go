// Package fulfillmentrepo provides data transfer objects and mapping
// functions for fulfillment persistence.
package fulfillmentrepo

import (
	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/kernel"
)

// FulfillmentDTO represents the database structure for persisting
// fulfillment records. Tracking details are embedded; they change rarely
// and always together.
type FulfillmentDTO struct {
	StoreID  int64 `gorm:"primaryKey;autoIncrement:false"`
	ID       int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID  int64 `gorm:"index"`
	Status   int
	Tracking TrackingDTO `gorm:"embedded;embeddedPrefix:tracking_"`

	Lines []LineDTO `gorm:"foreignKey:StoreID,FulfillmentID;references:StoreID,ID"`
}

// TableName specifies the database table name for fulfillments.
func (FulfillmentDTO) TableName() string {
	return "fulfillments"
}

// TrackingDTO represents the embedded carrier tracking details.
type TrackingDTO struct {
	Company string
	Number  string
	URL     string
}

// LineDTO represents one shipped line of a fulfillment.
type LineDTO struct {
	StoreID                    int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                         int64 `gorm:"primaryKey;autoIncrement:false"`
	FulfillmentID              int64 `gorm:"index"`
	FulfillmentOrderID         int64 `gorm:"index"`
	FulfillmentOrderLineItemID int64
	OrderLineItemID            int64
	Quantity                   int
}

// TableName specifies the database table name for fulfillment lines.
func (LineDTO) TableName() string {
	return "fulfillment_lines"
}

// fromDomain converts a fulfillment aggregate to its database
// representation.
func fromDomain(f *fulfillment.Fulfillment) FulfillmentDTO {
	dto := FulfillmentDTO{
		ID:      f.ID().Int64(),
		StoreID: f.StoreID().Int64(),
		OrderID: f.OrderID().Int64(),
		Status:  int(f.Status()),
		Tracking: TrackingDTO{
			Company: f.Tracking().Company(),
			Number:  f.Tracking().Number(),
			URL:     f.Tracking().URL(),
		},
	}

	for _, line := range f.Lines() {
		dto.Lines = append(dto.Lines, LineDTO{
			ID:                         line.ID().Int64(),
			FulfillmentID:              dto.ID,
			StoreID:                    dto.StoreID,
			FulfillmentOrderID:         line.FulfillmentOrderID().Int64(),
			FulfillmentOrderLineItemID: line.FulfillmentOrderLineItemID().Int64(),
			OrderLineItemID:            line.OrderLineItemID().Int64(),
			Quantity:                   line.Quantity(),
		})
	}

	return dto
}

// toDomain converts a database DTO to a fulfillment aggregate.
func toDomain(dto FulfillmentDTO) (*fulfillment.Fulfillment, error) {
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

	lines := make([]*fulfillment.Line, 0, len(dto.Lines))
	for _, line := range dto.Lines {
		restored, lineErr := lineToDomain(line)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, restored)
	}

	return fulfillment.RestoreFulfillment(
		id,
		storeID,
		orderID,
		fulfillment.Status(dto.Status),
		fulfillment.NewTrackingInfo(dto.Tracking.Company, dto.Tracking.Number, dto.Tracking.URL),
		lines,
	)
}

func lineToDomain(dto LineDTO) (*fulfillment.Line, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	fulfillmentOrderID, err := kernel.NewID(dto.FulfillmentOrderID)
	if err != nil {
		return nil, err
	}
	fulfillmentOrderLineItemID, err := kernel.NewID(dto.FulfillmentOrderLineItemID)
	if err != nil {
		return nil, err
	}
	orderLineItemID, err := kernel.NewID(dto.OrderLineItemID)
	if err != nil {
		return nil, err
	}
	return fulfillment.RestoreLine(id, fulfillmentOrderID, fulfillmentOrderLineItemID,
		orderLineItemID, dto.Quantity)
}
