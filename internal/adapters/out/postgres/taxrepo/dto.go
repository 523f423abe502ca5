// Package taxrepo provides data transfer objects and mapping functions for
// tax setting persistence.
package taxrepo

import (
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/tax"

	"github.com/shopspring/decimal"
)

// TaxSettingDTO represents the database structure for persisting a store's
// tax configuration. Each store has at most one setting row.
type TaxSettingDTO struct {
	StoreID       int64 `gorm:"primaryKey;autoIncrement:false;uniqueIndex"`
	ID            int64 `gorm:"primaryKey;autoIncrement:false"`
	TaxesIncluded bool
	TaxShipping   bool
	Status        int

	Values []SettingValueDTO `gorm:"foreignKey:StoreID,TaxSettingID;references:StoreID,ID"`
}

// TableName specifies the database table name for tax settings.
func (TaxSettingDTO) TableName() string {
	return "tax_settings"
}

// SettingValueDTO represents one tax rate. A NULL product identifier marks
// the store default rate.
type SettingValueDTO struct {
	StoreID      int64 `gorm:"primaryKey;autoIncrement:false"`
	ID           int64 `gorm:"primaryKey;autoIncrement:false"`
	TaxSettingID int64 `gorm:"index"`
	ProductID    *int64
	ValueType    int
	Rate         decimal.Decimal `gorm:"type:numeric"`
	Title        string
}

// TableName specifies the database table name for tax setting values.
func (SettingValueDTO) TableName() string {
	return "tax_setting_values"
}

// fromDomain converts a tax setting aggregate to its database
// representation.
func fromDomain(setting *tax.TaxSetting) TaxSettingDTO {
	dto := TaxSettingDTO{
		ID:            setting.ID().Int64(),
		StoreID:       setting.StoreID().Int64(),
		TaxesIncluded: setting.TaxesIncluded(),
		TaxShipping:   setting.TaxShipping(),
		Status:        int(setting.Status()),
	}

	for _, value := range setting.Values() {
		dto.Values = append(dto.Values, SettingValueDTO{
			ID:           value.ID().Int64(),
			TaxSettingID: dto.ID,
			StoreID:      dto.StoreID,
			ProductID:    idValue(value.ProductID()),
			ValueType:    int(value.ValueType()),
			Rate:         value.Rate(),
			Title:        value.Title(),
		})
	}

	return dto
}

// toDomain converts a database DTO to a tax setting aggregate.
func toDomain(dto TaxSettingDTO) (*tax.TaxSetting, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.NewStoreID(dto.StoreID)
	if err != nil {
		return nil, err
	}

	values := make([]*tax.SettingValue, 0, len(dto.Values))
	for _, valueDTO := range dto.Values {
		valueID, valueErr := kernel.NewID(valueDTO.ID)
		if valueErr != nil {
			return nil, valueErr
		}
		productID, valueErr := idFromValue(valueDTO.ProductID)
		if valueErr != nil {
			return nil, valueErr
		}
		value, valueErr := tax.RestoreSettingValue(valueID, productID,
			tax.ValueType(valueDTO.ValueType), valueDTO.Rate, valueDTO.Title)
		if valueErr != nil {
			return nil, valueErr
		}
		values = append(values, value)
	}

	return tax.RestoreTaxSetting(id, storeID, dto.TaxesIncluded, dto.TaxShipping,
		tax.Status(dto.Status), values)
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
