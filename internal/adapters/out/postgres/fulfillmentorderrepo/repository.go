package fulfillmentorderrepo

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormFulfillmentOrderRepository implements ports.FulfillmentOrderRepository
// using GORM.
type GormFulfillmentOrderRepository struct {
	db *gorm.DB
}

// NewGormFulfillmentOrderRepository creates a new GORM fulfillment order
// repository.
func NewGormFulfillmentOrderRepository(db *gorm.DB) *GormFulfillmentOrderRepository {
	return &GormFulfillmentOrderRepository{db: db}
}

// Add saves a new fulfillment order with its lines to the database.
func (r *GormFulfillmentOrderRepository) Add(ctx context.Context, aggregate *fulfillmentorder.FulfillmentOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing fulfillment order to the database. The header
// row is updated in place; line rows only ever shrink their remaining
// quantity, so they are updated individually.
func (r *GormFulfillmentOrderRepository) Update(ctx context.Context, aggregate *fulfillmentorder.FulfillmentOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&FulfillmentOrderDTO{}).
		Where("id = ? AND store_id = ?", dto.ID, dto.StoreID).
		Select("*").Omit("id", "store_id", "LineItems").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("fulfillmentOrderId", aggregate.ID().String())
	}

	for _, li := range dto.LineItems {
		err := r.db.WithContext(ctx).Model(&LineItemDTO{}).
			Where("store_id = ? AND id = ?", li.StoreID, li.ID).
			Update("remaining_quantity", li.RemainingQuantity).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a fulfillment order of one store by identifier.
func (r *GormFulfillmentOrderRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*fulfillmentorder.FulfillmentOrder, error) {
	if err := errors.Join(storeID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto FulfillmentOrderDTO
	err := r.db.WithContext(ctx).Preload("LineItems").
		First(&dto, "store_id = ? AND id = ?", storeID.Int64(), id.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fulfillmentOrderId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves every fulfillment order created for one order.
func (r *GormFulfillmentOrderRepository) GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*fulfillmentorder.FulfillmentOrder, error) {
	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	var dtos []FulfillmentOrderDTO
	err := r.db.WithContext(ctx).Preload("LineItems").
		Find(&dtos, "store_id = ? AND order_id = ?", storeID.Int64(), orderID.Int64()).Error
	if err != nil {
		return nil, err
	}

	fos := make([]*fulfillmentorder.FulfillmentOrder, 0, len(dtos))
	for _, dto := range dtos {
		fo, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		fos = append(fos, fo)
	}
	return fos, nil
}
