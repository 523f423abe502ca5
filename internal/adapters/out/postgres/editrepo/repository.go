package editrepo

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderEditRepository implements ports.OrderEditRepository using GORM.
type GormOrderEditRepository struct {
	db *gorm.DB
}

// NewGormOrderEditRepository creates a new GORM order edit repository.
func NewGormOrderEditRepository(db *gorm.DB) *GormOrderEditRepository {
	return &GormOrderEditRepository{db: db}
}

// Add saves a new edit session to the database.
func (r *GormOrderEditRepository) Add(ctx context.Context, aggregate *orderedit.OrderEdit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing edit session. Staged changes are replaced
// wholesale; staging can merge rows, so individual updates would miss
// removals.
func (r *GormOrderEditRepository) Update(ctx context.Context, aggregate *orderedit.OrderEdit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderEditDTO{}).
		Where("id = ? AND store_id = ?", dto.ID, dto.StoreID).
		Select("*").Omit("id", "store_id", "Changes").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderEditId", aggregate.ID().String())
	}

	if err := r.db.WithContext(ctx).Where("store_id = ? AND order_edit_id = ?", dto.StoreID, dto.ID).Delete(&ChangeDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Changes) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.Changes).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves an edit session of one store by identifier.
func (r *GormOrderEditRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*orderedit.OrderEdit, error) {
	if err := errors.Join(storeID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto OrderEditDTO
	err := r.db.WithContext(ctx).Preload("Changes").
		First(&dto, "store_id = ? AND id = ?", storeID.Int64(), id.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderEditId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenByOrderID retrieves the open edit sessions of one order.
func (r *GormOrderEditRepository) GetOpenByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*orderedit.OrderEdit, error) {
	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	var dtos []OrderEditDTO
	err := r.db.WithContext(ctx).Preload("Changes").
		Find(&dtos, "store_id = ? AND order_id = ? AND status = ?",
			storeID.Int64(), orderID.Int64(), orderedit.StatusOpen).Error
	if err != nil {
		return nil, err
	}

	edits := make([]*orderedit.OrderEdit, 0, len(dtos))
	for _, dto := range dtos {
		edit, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		edits = append(edits, edit)
	}
	return edits, nil
}
