// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. The unit of work coordinates one database transaction
// across every repository touched by a business operation, and stages the
// domain events of tracked aggregates into the outbox inside that same
// transaction. Events of failed operations are never staged.
package postgres

import (
	"context"
	"encoding/json"

	"ordercore/internal/adapters/out/postgres/editrepo"
	"ordercore/internal/adapters/out/postgres/fulfillmentorderrepo"
	"ordercore/internal/adapters/out/postgres/fulfillmentrepo"
	"ordercore/internal/adapters/out/postgres/idgen"
	"ordercore/internal/adapters/out/postgres/orderrepo"
	"ordercore/internal/adapters/out/postgres/outbox"
	"ordercore/internal/adapters/out/postgres/refundrepo"
	"ordercore/internal/adapters/out/postgres/taxrepo"
	"ordercore/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using a shared GORM
// database connection. Each business operation gets a fresh instance with
// its own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates a database transaction across the order
// management repositories and drains the pending events of tracked
// aggregates into the outbox on commit.
//
// Example:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	uow.Track(o)
//	return uow.Commit(ctx)
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []ports.EventSource
}

// Begin initiates a new database transaction. Calling Begin again on an
// instance with an open transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}
	return nil
}

// Commit stages the pending events of every tracked aggregate into the
// outbox and finalizes the transaction. The events are cleared from their
// aggregates only after the commit is durable.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.stageEvents(ctx); err != nil {
		_ = uow.tx.Rollback()
		uow.tx = nil
		return err
	}

	if err := uow.tx.Commit().Error; err != nil {
		uow.tx = nil
		return err
	}
	uow.tx = nil

	for _, source := range uow.tracked {
		source.ClearPendingEvents()
	}
	uow.tracked = nil
	return nil
}

// Rollback discards the transaction and every staged change. Rolling back
// without an open transaction returns gorm.ErrInvalidTransaction, which
// deferred cleanup after a successful commit safely ignores.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

// Track registers an aggregate whose pending events must reach the outbox
// when the transaction commits.
func (uow *GormUnitOfWork) Track(source ports.EventSource) {
	uow.tracked = append(uow.tracked, source)
}

// OrderRepository provides order persistence bound to the current
// transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// FulfillmentOrderRepository provides fulfillment order persistence bound
// to the current transaction.
func (uow *GormUnitOfWork) FulfillmentOrderRepository() ports.FulfillmentOrderRepository {
	return fulfillmentorderrepo.NewGormFulfillmentOrderRepository(uow.conn())
}

// FulfillmentRepository provides fulfillment persistence bound to the
// current transaction.
func (uow *GormUnitOfWork) FulfillmentRepository() ports.FulfillmentRepository {
	return fulfillmentrepo.NewGormFulfillmentRepository(uow.conn())
}

// OrderEditRepository provides order edit persistence bound to the current
// transaction.
func (uow *GormUnitOfWork) OrderEditRepository() ports.OrderEditRepository {
	return editrepo.NewGormOrderEditRepository(uow.conn())
}

// RefundRepository provides refund persistence bound to the current
// transaction.
func (uow *GormUnitOfWork) RefundRepository() ports.RefundRepository {
	return refundrepo.NewGormRefundRepository(uow.conn())
}

// TaxSettingRepository provides tax setting persistence bound to the
// current transaction.
func (uow *GormUnitOfWork) TaxSettingRepository() ports.TaxSettingRepository {
	return taxrepo.NewGormTaxSettingRepository(uow.conn())
}

// IDGenerator provides identifier allocation bound to the current
// transaction, so claimed ranges roll back together with the write that
// would have consumed them.
func (uow *GormUnitOfWork) IDGenerator() ports.IDGenerator {
	return idgen.NewGormIDGenerator(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) stageEvents(ctx context.Context) error {
	var rows []outbox.MessageDTO
	for _, source := range uow.tracked {
		for _, event := range source.PendingEvents() {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			rows = append(rows, outbox.MessageDTO{
				ID:        event.EventID(),
				Name:      event.EventName(),
				StoreID:   event.StoreID().Int64(),
				OrderID:   event.AggregateID().Int64(),
				Payload:   payload,
				CreatedAt: event.OccurredAt().UTC(),
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	return uow.tx.WithContext(ctx).Create(&rows).Error
}
