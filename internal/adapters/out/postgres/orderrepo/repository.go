package orderrepo

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// Updates carry an optimistic version predicate; a stale aggregate loses
// the write and gets errs.ConflictError.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its owned entities to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	aggregate.MarkPersisted()
	return nil
}

// Update saves an existing order to the database. The header row is updated
// only when the stored version still matches the loaded one; child rows are
// replaced wholesale afterwards.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND store_id = ? AND version = ?", dto.ID, dto.StoreID, aggregate.Version()).
		Select("*").Omit("id", "store_id", "LineItems", "ShippingLines", "Transactions", "DiscountApplications").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("orderId", aggregate.ID().Int64())
	}

	return r.replaceChildren(ctx, dto)
}

func (r *GormOrderRepository) replaceChildren(ctx context.Context, dto OrderDTO) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("store_id = ? AND order_id = ?", dto.StoreID, dto.ID).Delete(&LineItemDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("store_id = ? AND order_id = ?", dto.StoreID, dto.ID).Delete(&ShippingLineDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("store_id = ? AND order_id = ?", dto.StoreID, dto.ID).Delete(&TransactionDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("store_id = ? AND order_id = ?", dto.StoreID, dto.ID).Delete(&DiscountApplicationDTO{}).Error; err != nil {
		return err
	}

	if len(dto.LineItems) > 0 {
		if err := db.Create(&dto.LineItems).Error; err != nil {
			return err
		}
	}
	if len(dto.ShippingLines) > 0 {
		if err := db.Create(&dto.ShippingLines).Error; err != nil {
			return err
		}
	}
	if len(dto.Transactions) > 0 {
		if err := db.Create(&dto.Transactions).Error; err != nil {
			return err
		}
	}
	if len(dto.DiscountApplications) > 0 {
		if err := db.Create(&dto.DiscountApplications).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves an order of one store by identifier.
func (r *GormOrderRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*order.Order, error) {
	if err := errors.Join(storeID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "store_id = ? AND id = ?", storeID.Int64(), id.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIDs retrieves several orders of one store at once. Missing
// identifiers are skipped, not reported.
func (r *GormOrderRepository) GetByIDs(ctx context.Context, storeID kernel.StoreID, ids []kernel.ID) ([]*order.Order, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}

	values := make([]int64, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.Int64())
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).Find(&dtos, "store_id = ? AND id IN ?", storeID.Int64(), values).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetAllUnfulfilled retrieves the store's open orders that are not yet
// fully fulfilled.
func (r *GormOrderRepository) GetAllUnfulfilled(ctx context.Context, storeID kernel.StoreID) ([]*order.Order, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Find(&dtos, "store_id = ? AND status = ? AND fulfillment_status != ?",
			storeID.Int64(), order.StatusOpen, order.FulfillmentStatusFulfilled).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("ShippingLines").
		Preload("Transactions").
		Preload("DiscountApplications")
}

func (r *GormOrderRepository) toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
