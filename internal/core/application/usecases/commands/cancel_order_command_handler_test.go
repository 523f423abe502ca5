package commands_test

import (
	"testing"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cancelCommand(t *testing.T) commands.CancelOrderCommand {
	t.Helper()
	cmd, err := commands.NewCancelOrderCommand(testStoreID(t), testID(t, 1), "customer request")
	require.NoError(t, err)
	return cmd
}

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := cancelCommand(t)
	o := testOrder(t, 2, "10.00")

	active := testFulfillmentOrder(t, 2)

	closed := testFulfillmentOrder(t, 2)
	require.NoError(t, closed.AcceptWork())
	require.NoError(t, closed.ReduceRemaining([]fulfillmentorder.ReduceQuantity{
		{LineItemID: testID(t, 500), Quantity: 2},
	}))
	require.Equal(t, fulfillmentorder.StatusClosed, closed.Status())

	orderRepo := new(MockOrderRepository)
	foRepo := new(MockFulfillmentOrderRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	orderRepo.On("Get", ctx, testStoreID(t), testID(t, 1)).Return(o, nil).Once()
	uow.On("FulfillmentOrderRepository").Return(foRepo).Once()
	foRepo.On("GetByOrderID", ctx, testStoreID(t), testID(t, 1)).
		Return([]*fulfillmentorder.FulfillmentOrder{active, closed}, nil).Once()
	foRepo.On("Update", ctx, active).Return(nil).Once()
	uow.On("Track", o).Once()
	orderRepo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(
		FuncRoutingUoWFactory(func() commands.RoutingUoW { return uow }))
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status())
	assert.Equal(t, order.FinancialStatusVoided, o.FinancialStatus())
	assert.Equal(t, fulfillmentorder.StatusCancelled, active.Status())
	// Finished work stays closed.
	assert.Equal(t, fulfillmentorder.StatusClosed, closed.Status())

	foRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_FulfilledUnitsRejected(t *testing.T) {
	ctx := t.Context()
	cmd := cancelCommand(t)

	o := testOrder(t, 2, "10.00")
	require.NoError(t, o.RecordFulfillment(testID(t, 50), []order.FulfillmentQuantity{
		{LineItemID: testID(t, 11), Quantity: 1},
	}))
	o.ClearPendingEvents()

	orderRepo := new(MockOrderRepository)
	foRepo := new(MockFulfillmentOrderRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", ctx, testStoreID(t), testID(t, 1)).Return(o, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(
		FuncRoutingUoWFactory(func() commands.RoutingUoW { return uow }))
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)

	var violation *errs.DomainRuleViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "cancel-order", violation.Rule)
	assert.Equal(t, order.StatusOpen, o.Status())
	foRepo.AssertNotCalled(t, "GetByOrderID", ctx, testStoreID(t), testID(t, 1))
}

func TestNewCancelOrderCommand_EmptyReason(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(testStoreID(t), testID(t, 1), "")

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCancelReasonIsRequired)
}
