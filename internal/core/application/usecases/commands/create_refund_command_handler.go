package commands

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/services"
	"ordercore/internal/core/ports"
)

// CreateRefundCommandHandler handles refunding parts of an order. The
// calculator derives amounts and reversal transactions from the order's
// ledger; the handler persists the refund and the updated order atomically.
//
// Example:
//
//	handler := NewCreateRefundCommandHandler(uowFactory)
//	refundID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("refund failed: %w", err)
//	}
type CreateRefundCommandHandler struct {
	uowFactory RefundUoWFactory
}

// NewCreateRefundCommandHandler creates a handler for refund operations.
// Requires a RefundUoWFactory for transactional persistence.
func NewCreateRefundCommandHandler(uowFactory RefundUoWFactory) CreateRefundCommandHandler {
	return CreateRefundCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the refund command and returns the identifier of the
// created refund. Amounts never exceed what remains refundable, and the
// generated transactions never exceed the net captured amount.
func (h CreateRefundCommandHandler) Handle(ctx context.Context, cmd CreateRefundCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.ID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.ID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.StoreID(), cmd.OrderID())
	if err != nil {
		return kernel.ID{}, err
	}

	comp, err := services.NewRefundCalculator().Compute(o, refundRequest(cmd))
	if err != nil {
		return kernel.ID{}, err
	}

	lineCount := len(comp.Refund.LineItems())
	batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
		ports.IDKindRefund:         1,
		ports.IDKindRefundLineItem: lineCount,
	})
	if err != nil {
		return kernel.ID{}, err
	}

	refundID, err := batch.Next(ports.IDKindRefund)
	if err != nil {
		return kernel.ID{}, err
	}
	lineIDs, err := batch.Take(ports.IDKindRefundLineItem, lineCount)
	if err != nil {
		return kernel.ID{}, err
	}
	if err = comp.Refund.AssignIdentifiers(refundID, lineIDs); err != nil {
		return kernel.ID{}, err
	}

	if err = o.ApplyRefund(refundID, comp.OrderLines, comp.Transactions); err != nil {
		return kernel.ID{}, err
	}
	if err = assignPendingOrderIdentifiers(ctx, uow.IDGenerator(), cmd.StoreID(), o); err != nil {
		return kernel.ID{}, err
	}

	// The reversal transactions live in the order's ledger; the refund
	// keeps their identifiers as weak references.
	txIDs := make([]kernel.ID, 0, len(comp.Transactions))
	for _, tx := range comp.Transactions {
		txIDs = append(txIDs, tx.ID())
	}
	if len(txIDs) > 0 {
		if err = comp.Refund.AttachTransactions(txIDs); err != nil {
			return kernel.ID{}, err
		}
	}

	uow.Track(o)
	if err = uow.RefundRepository().Add(ctx, comp.Refund); err != nil {
		return kernel.ID{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return kernel.ID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ID{}, err
	}

	return refundID, nil
}

func refundRequest(cmd CreateRefundCommand) services.RefundRequest {
	lines := make([]services.RefundRequestLine, 0, len(cmd.Lines()))
	for _, in := range cmd.Lines() {
		lines = append(lines, services.RefundRequestLine{
			OrderLineItemID: in.OrderLineItemID,
			Quantity:        in.Quantity,
			RestockType:     in.RestockType,
			LocationID:      in.LocationID,
		})
	}
	return services.RefundRequest{
		Note:           cmd.Note(),
		Lines:          lines,
		RefundShipping: cmd.RefundShipping(),
		ShippingAmount: cmd.ShippingAmount(),
		Gateway:        cmd.Gateway(),
	}
}
