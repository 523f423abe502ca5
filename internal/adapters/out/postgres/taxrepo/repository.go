package taxrepo

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/tax"
	"ordercore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTaxSettingRepository implements ports.TaxSettingRepository using GORM.
type GormTaxSettingRepository struct {
	db *gorm.DB
}

// NewGormTaxSettingRepository creates a new GORM tax setting repository.
func NewGormTaxSettingRepository(db *gorm.DB) *GormTaxSettingRepository {
	return &GormTaxSettingRepository{db: db}
}

// Add saves a new tax setting with its values to the database.
func (r *GormTaxSettingRepository) Add(ctx context.Context, aggregate *tax.TaxSetting) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing tax setting, replacing its rate values.
func (r *GormTaxSettingRepository) Update(ctx context.Context, aggregate *tax.TaxSetting) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&TaxSettingDTO{}).
		Where("id = ? AND store_id = ?", dto.ID, dto.StoreID).
		Select("*").Omit("id", "store_id", "Values").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("taxSettingId", aggregate.ID().String())
	}

	if err := r.db.WithContext(ctx).Where("store_id = ? AND tax_setting_id = ?", dto.StoreID, dto.ID).Delete(&SettingValueDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Values) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.Values).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByStore retrieves the tax setting of one store. Returns
// errs.ErrObjectNotFound when the store has no configuration yet.
func (r *GormTaxSettingRepository) GetByStore(ctx context.Context, storeID kernel.StoreID) (*tax.TaxSetting, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}

	var dto TaxSettingDTO
	err := r.db.WithContext(ctx).Preload("Values").
		First(&dto, "store_id = ?", storeID.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("taxSetting", storeID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
