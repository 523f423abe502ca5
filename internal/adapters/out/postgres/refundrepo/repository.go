package refundrepo

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/refund"
	"ordercore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRefundRepository implements ports.RefundRepository using GORM.
// Refunds are immutable once written; the port exposes no update.
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GORM refund repository.
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// Add saves a new refund with its lines to the database.
func (r *GormRefundRepository) Add(ctx context.Context, aggregate *refund.Refund) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a refund of one store by identifier.
func (r *GormRefundRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*refund.Refund, error) {
	if err := errors.Join(storeID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto RefundDTO
	err := r.db.WithContext(ctx).Preload("LineItems").
		First(&dto, "store_id = ? AND id = ?", storeID.Int64(), id.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refundId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves every refund recorded against one order.
func (r *GormRefundRepository) GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*refund.Refund, error) {
	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	var dtos []RefundDTO
	err := r.db.WithContext(ctx).Preload("LineItems").
		Find(&dtos, "store_id = ? AND order_id = ?", storeID.Int64(), orderID.Int64()).Error
	if err != nil {
		return nil, err
	}

	refunds := make([]*refund.Refund, 0, len(dtos))
	for _, dto := range dtos {
		restored, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		refunds = append(refunds, restored)
	}
	return refunds, nil
}
