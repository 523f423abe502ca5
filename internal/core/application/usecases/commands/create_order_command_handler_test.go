package commands_test

import (
	"errors"
	"testing"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/tax"
	"ordercore/internal/core/ports"
	"ordercore/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), validLineInputs(t), []commands.ShippingLineInput{
		{Title: "Standard", Price: usdMoney(t, "5.00")},
	})
	require.NoError(t, err)

	taxRepo := new(MockTaxSettingRepository)
	orderRepo := new(MockOrderRepository)
	gen := new(MockIDGenerator)
	uow := new(MockUoW)

	batch := batchOf(t, map[ports.IDKind][]int64{
		ports.IDKindOrder:        {1},
		ports.IDKindLineItem:     {11},
		ports.IDKindShippingLine: {21},
	})

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TaxSettingRepository").Return(taxRepo).Once()
	taxRepo.On("GetByStore", ctx, testStoreID(t)).Return(nil, errs.ErrObjectNotFound).Once()
	uow.On("IDGenerator").Return(gen).Once()
	gen.On("Allocate", ctx, testStoreID(t), map[ports.IDKind]int{
		ports.IDKindOrder:        1,
		ports.IDKindLineItem:     1,
		ports.IDKindShippingLine: 1,
		ports.IDKindTransaction:  0,
	}).Return(batch, nil).Once()
	uow.On("Track", mock.AnythingOfType("*order.Order")).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(FuncOrderUoWFactory(func() commands.OrderUoW { return uow }), new(MockCustomerLookup))
	orderID, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(1), orderID.Int64())

	added := orderRepo.Calls[0].Arguments[1].(*order.Order)
	assert.True(t, added.Total().IsEqual(usdMoney(t, "25.00")))
	assert.Equal(t, order.StatusOpen, added.Status())
	assert.False(t, added.TaxesIncluded())

	orderRepo.AssertExpectations(t)
	taxRepo.AssertExpectations(t)
	gen.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AppliesStoreTaxes(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1002", usd(t), validLineInputs(t), nil)
	require.NoError(t, err)

	rate, err := tax.NewSettingValue(nil, tax.ValueTypeLineItem, decimal.RequireFromString("0.1"), "VAT")
	require.NoError(t, err)
	setting, err := tax.NewTaxSetting(testStoreID(t), false, false, []*tax.SettingValue{rate})
	require.NoError(t, err)

	taxRepo := new(MockTaxSettingRepository)
	orderRepo := new(MockOrderRepository)
	gen := new(MockIDGenerator)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TaxSettingRepository").Return(taxRepo).Once()
	taxRepo.On("GetByStore", ctx, testStoreID(t)).Return(setting, nil).Once()
	uow.On("IDGenerator").Return(gen).Once()
	gen.On("Allocate", ctx, testStoreID(t), mock.Anything).Return(batchOf(t, map[ports.IDKind][]int64{
		ports.IDKindOrder:    {2},
		ports.IDKindLineItem: {12},
	}), nil).Once()
	uow.On("Track", mock.AnythingOfType("*order.Order")).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(FuncOrderUoWFactory(func() commands.OrderUoW { return uow }), new(MockCustomerLookup))
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	added := orderRepo.Calls[0].Arguments[1].(*order.Order)
	assert.True(t, added.TotalTax().IsEqual(usdMoney(t, "2.00")))
	assert.True(t, added.Total().IsEqual(usdMoney(t, "22.00")))
}

func TestCreateOrderCommandHandler_Handle_VerifiesCustomerReference(t *testing.T) {
	ctx := t.Context()
	customerID := testID(t, 500)
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), validLineInputs(t), nil)
	require.NoError(t, err)
	cmd = cmd.WithCustomer(&customerID, nil, nil)

	taxRepo := new(MockTaxSettingRepository)
	orderRepo := new(MockOrderRepository)
	gen := new(MockIDGenerator)
	uow := new(MockUoW)
	customers := new(MockCustomerLookup)

	customers.On("Exists", ctx, testStoreID(t), customerID).Return(true, nil).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TaxSettingRepository").Return(taxRepo).Once()
	taxRepo.On("GetByStore", ctx, testStoreID(t)).Return(nil, errs.ErrObjectNotFound).Once()
	uow.On("IDGenerator").Return(gen).Once()
	gen.On("Allocate", ctx, testStoreID(t), mock.Anything).Return(batchOf(t, map[ports.IDKind][]int64{
		ports.IDKindOrder:    {1},
		ports.IDKindLineItem: {11},
	}), nil).Once()
	uow.On("Track", mock.AnythingOfType("*order.Order")).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(FuncOrderUoWFactory(func() commands.OrderUoW { return uow }), customers)
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	added := orderRepo.Calls[0].Arguments[1].(*order.Order)
	require.NotNil(t, added.CustomerID())
	assert.Equal(t, int64(500), added.CustomerID().Int64())
	customers.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_UnknownCustomer_ReturnsNotFound(t *testing.T) {
	ctx := t.Context()
	customerID := testID(t, 999)
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), validLineInputs(t), nil)
	require.NoError(t, err)
	cmd = cmd.WithCustomer(&customerID, nil, nil)

	customers := new(MockCustomerLookup)
	customers.On("Exists", ctx, testStoreID(t), customerID).Return(false, nil).Once()

	handler := commands.NewCreateOrderCommandHandler(FuncOrderUoWFactory(func() commands.OrderUoW {
		t.Fatal("factory must not be called")
		return nil
	}), customers)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	var cmd commands.CreateOrderCommand

	handler := commands.NewCreateOrderCommandHandler(FuncOrderUoWFactory(func() commands.OrderUoW {
		t.Fatal("factory must not be called")
		return nil
	}), new(MockCustomerLookup))
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_AllocateError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), validLineInputs(t), nil)
	require.NoError(t, err)

	taxRepo := new(MockTaxSettingRepository)
	gen := new(MockIDGenerator)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TaxSettingRepository").Return(taxRepo).Once()
	taxRepo.On("GetByStore", ctx, testStoreID(t)).Return(nil, errs.ErrObjectNotFound).Once()
	uow.On("IDGenerator").Return(gen).Once()
	gen.On("Allocate", ctx, testStoreID(t), mock.Anything).Return(nil, errors.New("counter unavailable")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(FuncOrderUoWFactory(func() commands.OrderUoW { return uow }), new(MockCustomerLookup))
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "counter unavailable")
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(testStoreID(t), "#1001", usd(t), validLineInputs(t), nil)
	require.NoError(t, err)

	taxRepo := new(MockTaxSettingRepository)
	orderRepo := new(MockOrderRepository)
	gen := new(MockIDGenerator)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TaxSettingRepository").Return(taxRepo).Once()
	taxRepo.On("GetByStore", ctx, testStoreID(t)).Return(nil, errs.ErrObjectNotFound).Once()
	uow.On("IDGenerator").Return(gen).Once()
	gen.On("Allocate", ctx, testStoreID(t), mock.Anything).Return(batchOf(t, map[ports.IDKind][]int64{
		ports.IDKindOrder:    {1},
		ports.IDKindLineItem: {11},
	}), nil).Once()
	uow.On("Track", mock.AnythingOfType("*order.Order")).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", ctx).Return(errors.New("commit error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(FuncOrderUoWFactory(func() commands.OrderUoW { return uow }), new(MockCustomerLookup))
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "commit error")
}
