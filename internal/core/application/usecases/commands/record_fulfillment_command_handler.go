package commands

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/ports"
)

var ErrDuplicateFulfillmentReport = errors.New("fulfillment report with this idempotency key was already recorded")

// RecordFulfillmentCommandHandler handles fulfilled work reported by a
// location. Drains the fulfillment order, applies the quantities to the
// order, and records the shipment, all in one transaction. The idempotency
// key guarantees a retried report is recorded at most once.
//
// Example:
//
//	handler := NewRecordFulfillmentCommandHandler(uowFactory, idempotencyStore)
//	fulfillmentID, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrDuplicateFulfillmentReport) {
//	    // already recorded, safe to acknowledge
//	}
type RecordFulfillmentCommandHandler struct {
	uowFactory  FulfillmentUoWFactory
	idempotency ports.IdempotencyStore
}

// NewRecordFulfillmentCommandHandler creates a handler for fulfillment
// recording. Requires a FulfillmentUoWFactory and an idempotency store.
func NewRecordFulfillmentCommandHandler(uowFactory FulfillmentUoWFactory, idempotency ports.IdempotencyStore) RecordFulfillmentCommandHandler {
	return RecordFulfillmentCommandHandler{
		uowFactory:  uowFactory,
		idempotency: idempotency,
	}
}

// Handle processes the fulfillment report and returns the identifier of the
// recorded fulfillment. A fulfillment order that drains to zero remaining
// closes automatically.
func (h RecordFulfillmentCommandHandler) Handle(ctx context.Context, cmd RecordFulfillmentCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.ID{}, err
	}

	alreadySeen, err := h.idempotency.Begin(ctx, cmd.StoreID(), cmd.IdempotencyKey())
	if err != nil {
		return kernel.ID{}, err
	}
	if alreadySeen {
		return kernel.ID{}, ErrDuplicateFulfillmentReport
	}

	recorded := false
	defer func() {
		if !recorded {
			_ = h.idempotency.Release(ctx, cmd.StoreID(), cmd.IdempotencyKey())
		}
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.ID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	fo, err := uow.FulfillmentOrderRepository().Get(ctx, cmd.StoreID(), cmd.FulfillmentOrderID())
	if err != nil {
		return kernel.ID{}, err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.StoreID(), fo.OrderID())
	if err != nil {
		return kernel.ID{}, err
	}

	reductions, fulfillmentLines, orderQuantities, err := mapFulfillmentLines(fo, cmd.Lines())
	if err != nil {
		return kernel.ID{}, err
	}

	if fo.Status() == fulfillmentorder.StatusOpen {
		if err = fo.AcceptWork(); err != nil {
			return kernel.ID{}, err
		}
	}
	if err = fo.ReduceRemaining(reductions); err != nil {
		return kernel.ID{}, err
	}
	if err = o.RecordFulfillment(fo.ID(), orderQuantities); err != nil {
		return kernel.ID{}, err
	}

	f, err := fulfillment.NewFulfillment(cmd.StoreID(), fo.OrderID(), cmd.Tracking(), fulfillmentLines)
	if err != nil {
		return kernel.ID{}, err
	}

	batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
		ports.IDKindFulfillment:     1,
		ports.IDKindFulfillmentLine: len(fulfillmentLines),
	})
	if err != nil {
		return kernel.ID{}, err
	}

	fulfillmentID, err := batch.Next(ports.IDKindFulfillment)
	if err != nil {
		return kernel.ID{}, err
	}
	lineIDs, err := batch.Take(ports.IDKindFulfillmentLine, len(fulfillmentLines))
	if err != nil {
		return kernel.ID{}, err
	}
	if err = f.AssignIdentifiers(fulfillmentID, lineIDs); err != nil {
		return kernel.ID{}, err
	}

	uow.Track(o)
	if err = uow.FulfillmentRepository().Add(ctx, f); err != nil {
		return kernel.ID{}, err
	}
	if err = uow.FulfillmentOrderRepository().Update(ctx, fo); err != nil {
		return kernel.ID{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return kernel.ID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ID{}, err
	}

	recorded = true
	if err = h.idempotency.MarkDone(ctx, cmd.StoreID(), cmd.IdempotencyKey()); err != nil {
		// The work committed; a lost completion marker only risks a
		// duplicate-report error on retry, never a double record.
		return fulfillmentID, nil
	}

	return fulfillmentID, nil
}

// mapFulfillmentLines resolves reported order line quantities onto the
// fulfillment order's own lines.
func mapFulfillmentLines(
	fo *fulfillmentorder.FulfillmentOrder,
	inputs []FulfillmentLineInput,
) ([]fulfillmentorder.ReduceQuantity, []*fulfillment.Line, []order.FulfillmentQuantity, error) {
	reductions := make([]fulfillmentorder.ReduceQuantity, 0, len(inputs))
	fulfillmentLines := make([]*fulfillment.Line, 0, len(inputs))
	orderQuantities := make([]order.FulfillmentQuantity, 0, len(inputs))

	for _, in := range inputs {
		foLine, err := fo.LineByOrderLineItemID(in.OrderLineItemID)
		if err != nil {
			return nil, nil, nil, err
		}

		reductions = append(reductions, fulfillmentorder.ReduceQuantity{
			LineItemID: foLine.ID(),
			Quantity:   in.Quantity,
		})

		fl, err := fulfillment.NewLine(fo.ID(), foLine.ID(), in.OrderLineItemID, in.Quantity)
		if err != nil {
			return nil, nil, nil, err
		}
		fulfillmentLines = append(fulfillmentLines, fl)

		orderQuantities = append(orderQuantities, order.FulfillmentQuantity{
			LineItemID: in.OrderLineItemID,
			Quantity:   in.Quantity,
		})
	}
	return reductions, fulfillmentLines, orderQuantities, nil
}
