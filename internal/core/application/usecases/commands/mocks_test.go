package commands_test

import (
	"context"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/core/domain/model/refund"
	"ordercore/internal/core/domain/model/tax"
	"ordercore/internal/core/domain/services"
	"ordercore/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDs(ctx context.Context, storeID kernel.StoreID, ids []kernel.ID) ([]*order.Order, error) {
	args := m.Called(ctx, storeID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllUnfulfilled(ctx context.Context, storeID kernel.StoreID) ([]*order.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockFulfillmentOrderRepository struct{ mock.Mock }

func (m *MockFulfillmentOrderRepository) Add(ctx context.Context, fo *fulfillmentorder.FulfillmentOrder) error {
	args := m.Called(ctx, fo)
	return args.Error(0)
}

func (m *MockFulfillmentOrderRepository) Update(ctx context.Context, fo *fulfillmentorder.FulfillmentOrder) error {
	args := m.Called(ctx, fo)
	return args.Error(0)
}

func (m *MockFulfillmentOrderRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*fulfillmentorder.FulfillmentOrder, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentorder.FulfillmentOrder), args.Error(1)
}

func (m *MockFulfillmentOrderRepository) GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*fulfillmentorder.FulfillmentOrder, error) {
	args := m.Called(ctx, storeID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fulfillmentorder.FulfillmentOrder), args.Error(1)
}

type MockFulfillmentRepository struct{ mock.Mock }

func (m *MockFulfillmentRepository) Add(ctx context.Context, f *fulfillment.Fulfillment) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) Update(ctx context.Context, f *fulfillment.Fulfillment) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*fulfillment.Fulfillment, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Fulfillment), args.Error(1)
}

func (m *MockFulfillmentRepository) GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*fulfillment.Fulfillment, error) {
	args := m.Called(ctx, storeID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fulfillment.Fulfillment), args.Error(1)
}

type MockOrderEditRepository struct{ mock.Mock }

func (m *MockOrderEditRepository) Add(ctx context.Context, e *orderedit.OrderEdit) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockOrderEditRepository) Update(ctx context.Context, e *orderedit.OrderEdit) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockOrderEditRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*orderedit.OrderEdit, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderedit.OrderEdit), args.Error(1)
}

func (m *MockOrderEditRepository) GetOpenByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*orderedit.OrderEdit, error) {
	args := m.Called(ctx, storeID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*orderedit.OrderEdit), args.Error(1)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Add(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefundRepository) Get(ctx context.Context, storeID kernel.StoreID, id kernel.ID) (*refund.Refund, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}

func (m *MockRefundRepository) GetByOrderID(ctx context.Context, storeID kernel.StoreID, orderID kernel.ID) ([]*refund.Refund, error) {
	args := m.Called(ctx, storeID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.Refund), args.Error(1)
}

type MockTaxSettingRepository struct{ mock.Mock }

func (m *MockTaxSettingRepository) Add(ctx context.Context, s *tax.TaxSetting) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockTaxSettingRepository) Update(ctx context.Context, s *tax.TaxSetting) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockTaxSettingRepository) GetByStore(ctx context.Context, storeID kernel.StoreID) (*tax.TaxSetting, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.TaxSetting), args.Error(1)
}

type MockIDGenerator struct{ mock.Mock }

func (m *MockIDGenerator) Allocate(ctx context.Context, storeID kernel.StoreID, counts map[ports.IDKind]int) (*ports.IDBatch, error) {
	args := m.Called(ctx, storeID, counts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.IDBatch), args.Error(1)
}

type MockInventoryLookup struct{ mock.Mock }

func (m *MockInventoryLookup) StocksForVariants(ctx context.Context, storeID kernel.StoreID, variantIDs []kernel.ID) ([]services.LocationStock, error) {
	args := m.Called(ctx, storeID, variantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.LocationStock), args.Error(1)
}

type MockProductLookup struct{ mock.Mock }

func (m *MockProductLookup) VariantsByIDs(ctx context.Context, storeID kernel.StoreID, variantIDs []kernel.ID) (map[int64]services.VariantInfo, error) {
	args := m.Called(ctx, storeID, variantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]services.VariantInfo), args.Error(1)
}

type MockCustomerLookup struct{ mock.Mock }

func (m *MockCustomerLookup) Exists(ctx context.Context, storeID kernel.StoreID, customerID kernel.ID) (bool, error) {
	args := m.Called(ctx, storeID, customerID)
	return args.Bool(0), args.Error(1)
}

type MockIdempotencyStore struct{ mock.Mock }

func (m *MockIdempotencyStore) Begin(ctx context.Context, storeID kernel.StoreID, key string) (bool, error) {
	args := m.Called(ctx, storeID, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) MarkDone(ctx context.Context, storeID kernel.StoreID, key string) error {
	args := m.Called(ctx, storeID, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, storeID kernel.StoreID, key string) error {
	args := m.Called(ctx, storeID, key)
	return args.Error(0)
}

// MockUoW satisfies every command unit-of-work interface at once; tests
// register expectations only for the repositories the handler under test
// touches.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Track(source ports.EventSource) {
	m.Called(source)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) FulfillmentOrderRepository() ports.FulfillmentOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.FulfillmentOrderRepository)
}

func (m *MockUoW) FulfillmentRepository() ports.FulfillmentRepository {
	args := m.Called()
	return args.Get(0).(ports.FulfillmentRepository)
}

func (m *MockUoW) OrderEditRepository() ports.OrderEditRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderEditRepository)
}

func (m *MockUoW) RefundRepository() ports.RefundRepository {
	args := m.Called()
	return args.Get(0).(ports.RefundRepository)
}

func (m *MockUoW) TaxSettingRepository() ports.TaxSettingRepository {
	args := m.Called()
	return args.Get(0).(ports.TaxSettingRepository)
}

func (m *MockUoW) IDGenerator() ports.IDGenerator {
	args := m.Called()
	return args.Get(0).(ports.IDGenerator)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW { return f() }

type FuncRoutingUoWFactory func() commands.RoutingUoW

func (f FuncRoutingUoWFactory) Create() commands.RoutingUoW { return f() }

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW { return f() }

type FuncEditUoWFactory func() commands.EditUoW

func (f FuncEditUoWFactory) Create() commands.EditUoW { return f() }

type FuncRefundUoWFactory func() commands.RefundUoW

func (f FuncRefundUoWFactory) Create() commands.RefundUoW { return f() }

type FuncTaxUoWFactory func() commands.TaxUoW

func (f FuncTaxUoWFactory) Create() commands.TaxUoW { return f() }
