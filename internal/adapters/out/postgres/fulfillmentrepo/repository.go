package fulfillmentrepo

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormFulfillmentRepository implements ports.FulfillmentRepository using
// GORM. Fulfillments are near-immutable; only the status ever changes
// after creation.
type GormFulfillmentRepository struct {
	db *gorm.DB
}

// NewGormFulfillmentRepository creates a new GORM fulfillment repository.
func NewGormFulfillmentRepository(db *gorm.DB) *GormFulfillmentRepository {
	return &GormFulfillmentRepository{db: db}
}

// Add saves a new fulfillment with its lines to the database.
func (r *GormFulfillmentRepository) Add(ctx context.Context, aggregate *fulfillment.Fulfillment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves status and tracking changes of an existing fulfillment.
func (r *GormFulfillmentRepository) Update(ctx context.Context, aggregate *fulfillment.Fulfillment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&FulfillmentDTO{}).
		Where("id = ? AND store_id = ?", dto.ID, dto.StoreID).
		Select("*").Omit("id", "store_id", "Lines").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("fulfillmentId", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a fulfillment of one store by identifier.
func (r *GormFulfillmentRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*fulfillment.Fulfillment, error) {
	if err := errors.Join(storeID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto FulfillmentDTO
	err := r.db.WithContext(ctx).Preload("Lines").
		First(&dto, "store_id = ? AND id = ?", storeID.Int64(), id.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fulfillmentId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves every fulfillment recorded for one order.
func (r *GormFulfillmentRepository) GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*fulfillment.Fulfillment, error) {
	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	var dtos []FulfillmentDTO
	err := r.db.WithContext(ctx).Preload("Lines").
		Find(&dtos, "store_id = ? AND order_id = ?", storeID.Int64(), orderID.Int64()).Error
	if err != nil {
		return nil, err
	}

	fulfillments := make([]*fulfillment.Fulfillment, 0, len(dtos))
	for _, dto := range dtos {
		f, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		fulfillments = append(fulfillments, f)
	}
	return fulfillments, nil
}
