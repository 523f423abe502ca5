package commands_test

import (
	"errors"
	"testing"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/ports"
	"ordercore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testFulfillmentOrder mirrors the single line of testOrder: order line 11,
// variant 100, with identifiers fo 50 and line 500.
func testFulfillmentOrder(t *testing.T, quantity int) *fulfillmentorder.FulfillmentOrder {
	t.Helper()

	variantID := testID(t, 100)
	li, err := fulfillmentorder.NewLineItem(testID(t, 11), &variantID, quantity)
	require.NoError(t, err)

	fo, err := fulfillmentorder.NewFulfillmentOrder(
		testStoreID(t),
		testID(t, 1),
		testID(t, 7),
		fulfillmentorder.ExpectedDeliveryMethodShipping,
		fulfillmentorder.Destination{},
		[]*fulfillmentorder.LineItem{li},
	)
	require.NoError(t, err)
	require.NoError(t, fo.AssignIdentifiers(testID(t, 50), []kernel.ID{testID(t, 500)}))
	return fo
}

func recordCommand(t *testing.T, quantity int) commands.RecordFulfillmentCommand {
	t.Helper()
	cmd, err := commands.NewRecordFulfillmentCommand(
		testStoreID(t),
		testID(t, 50),
		[]commands.FulfillmentLineInput{{OrderLineItemID: testID(t, 11), Quantity: quantity}},
		fulfillment.NewTrackingInfo("UPS", "1Z999", "https://track.example/1Z999"),
		"report-abc",
	)
	require.NoError(t, err)
	return cmd
}

func TestRecordFulfillmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := recordCommand(t, 2)
	o := testOrder(t, 2, "10.00")
	fo := testFulfillmentOrder(t, 2)

	orderRepo := new(MockOrderRepository)
	foRepo := new(MockFulfillmentOrderRepository)
	fulfillmentRepo := new(MockFulfillmentRepository)
	gen := new(MockIDGenerator)
	idem := new(MockIdempotencyStore)
	uow := new(MockUoW)

	idem.On("Begin", ctx, testStoreID(t), "report-abc").Return(false, nil).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("FulfillmentOrderRepository").Return(foRepo).Twice()
	foRepo.On("Get", ctx, testStoreID(t), testID(t, 50)).Return(fo, nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	orderRepo.On("Get", ctx, testStoreID(t), testID(t, 1)).Return(o, nil).Once()
	uow.On("IDGenerator").Return(gen).Once()
	gen.On("Allocate", ctx, testStoreID(t), map[ports.IDKind]int{
		ports.IDKindFulfillment:     1,
		ports.IDKindFulfillmentLine: 1,
	}).Return(batchOf(t, map[ports.IDKind][]int64{
		ports.IDKindFulfillment:     {70},
		ports.IDKindFulfillmentLine: {700},
	}), nil).Once()
	uow.On("Track", mock.AnythingOfType("*order.Order")).Once()
	fulfillmentRepo.On("Add", ctx, mock.AnythingOfType("*fulfillment.Fulfillment")).Return(nil).Once()
	uow.On("FulfillmentRepository").Return(fulfillmentRepo).Once()
	foRepo.On("Update", ctx, fo).Return(nil).Once()
	orderRepo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	idem.On("MarkDone", ctx, testStoreID(t), "report-abc").Return(nil).Once()

	handler := commands.NewRecordFulfillmentCommandHandler(
		FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW { return uow }), idem)
	fulfillmentID, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(70), fulfillmentID.Int64())

	// Fully drained work closes, and the order reflects it.
	assert.Equal(t, fulfillmentorder.StatusClosed, fo.Status())
	assert.Equal(t, order.FulfillmentStatusFulfilled, o.FulfillmentStatus())

	idem.AssertExpectations(t)
	uow.AssertExpectations(t)
	foRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	fulfillmentRepo.AssertExpectations(t)
}

func TestRecordFulfillmentCommandHandler_Handle_DuplicateReport(t *testing.T) {
	ctx := t.Context()
	cmd := recordCommand(t, 2)

	idem := new(MockIdempotencyStore)
	idem.On("Begin", ctx, testStoreID(t), "report-abc").Return(true, nil).Once()

	handler := commands.NewRecordFulfillmentCommandHandler(
		FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
			t.Fatal("unit of work must not be created for a duplicate report")
			return nil
		}), idem)
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrDuplicateFulfillmentReport)
	idem.AssertNotCalled(t, "Release", ctx, testStoreID(t), "report-abc")
}

func TestRecordFulfillmentCommandHandler_Handle_ReleasesKeyOnFailure(t *testing.T) {
	ctx := t.Context()
	cmd := recordCommand(t, 2)
	o := testOrder(t, 2, "10.00")
	fo := testFulfillmentOrder(t, 2)

	orderRepo := new(MockOrderRepository)
	foRepo := new(MockFulfillmentOrderRepository)
	fulfillmentRepo := new(MockFulfillmentRepository)
	gen := new(MockIDGenerator)
	idem := new(MockIdempotencyStore)
	uow := new(MockUoW)

	idem.On("Begin", ctx, testStoreID(t), "report-abc").Return(false, nil).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("FulfillmentOrderRepository").Return(foRepo).Twice()
	foRepo.On("Get", ctx, testStoreID(t), testID(t, 50)).Return(fo, nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	orderRepo.On("Get", ctx, testStoreID(t), testID(t, 1)).Return(o, nil).Once()
	uow.On("IDGenerator").Return(gen).Once()
	gen.On("Allocate", ctx, testStoreID(t), mock.Anything).Return(batchOf(t, map[ports.IDKind][]int64{
		ports.IDKindFulfillment:     {70},
		ports.IDKindFulfillmentLine: {700},
	}), nil).Once()
	uow.On("Track", mock.AnythingOfType("*order.Order")).Once()
	uow.On("FulfillmentRepository").Return(fulfillmentRepo).Once()
	fulfillmentRepo.On("Add", ctx, mock.AnythingOfType("*fulfillment.Fulfillment")).Return(nil).Once()
	foRepo.On("Update", ctx, fo).Return(nil).Once()
	orderRepo.On("Update", ctx, o).Return(errors.New("stale version")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	idem.On("Release", ctx, testStoreID(t), "report-abc").Return(nil).Once()

	handler := commands.NewRecordFulfillmentCommandHandler(
		FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW { return uow }), idem)
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "stale version")
	idem.AssertExpectations(t)
	idem.AssertNotCalled(t, "MarkDone", ctx, testStoreID(t), "report-abc")
}

func TestRecordFulfillmentCommandHandler_Handle_OverfulfillmentRejected(t *testing.T) {
	ctx := t.Context()
	cmd := recordCommand(t, 3)
	o := testOrder(t, 2, "10.00")
	fo := testFulfillmentOrder(t, 2)

	orderRepo := new(MockOrderRepository)
	foRepo := new(MockFulfillmentOrderRepository)
	idem := new(MockIdempotencyStore)
	uow := new(MockUoW)

	idem.On("Begin", ctx, testStoreID(t), "report-abc").Return(false, nil).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("FulfillmentOrderRepository").Return(foRepo).Once()
	foRepo.On("Get", ctx, testStoreID(t), testID(t, 50)).Return(fo, nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", ctx, testStoreID(t), testID(t, 1)).Return(o, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	idem.On("Release", ctx, testStoreID(t), "report-abc").Return(nil).Once()

	handler := commands.NewRecordFulfillmentCommandHandler(
		FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW { return uow }), idem)
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)

	var violation *errs.DomainRuleViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "reduce-remaining", violation.Rule)
	assert.Equal(t, order.FulfillmentStatusUnfulfilled, o.FulfillmentStatus())
}
