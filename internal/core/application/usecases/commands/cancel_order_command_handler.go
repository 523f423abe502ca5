package commands

import (
	"context"
)

// CancelOrderCommandHandler cancels an order and every fulfillment order
// still active for it, in one transaction. Orders with fulfilled units
// cannot be cancelled; the domain rule rejects the whole operation.
type CancelOrderCommandHandler struct {
	uowFactory RoutingUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
// Requires a RoutingUoWFactory since cancellation spans orders and their
// fulfillment orders.
func NewCancelOrderCommandHandler(uowFactory RoutingUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.StoreID(), cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Cancel(cmd.Reason()); err != nil {
		return err
	}

	foRepo := uow.FulfillmentOrderRepository()
	fos, err := foRepo.GetByOrderID(ctx, cmd.StoreID(), cmd.OrderID())
	if err != nil {
		return err
	}
	for _, fo := range fos {
		if !fo.Status().IsActive() {
			continue
		}
		if err = fo.Cancel(); err != nil {
			return err
		}
		if err = foRepo.Update(ctx, fo); err != nil {
			return err
		}
	}

	uow.Track(o)
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
