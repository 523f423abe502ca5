package commands

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/core/ports"
	"ordercore/internal/pkg/errs"
)

// CreateOrderEditCommandHandler opens an edit session for an open order.
type CreateOrderEditCommandHandler struct {
	uowFactory EditUoWFactory
}

// NewCreateOrderEditCommandHandler creates a handler for opening edit
// sessions. Requires an EditUoWFactory for transactional persistence.
func NewCreateOrderEditCommandHandler(uowFactory EditUoWFactory) CreateOrderEditCommandHandler {
	return CreateOrderEditCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle opens an edit session and returns its identifier. The order must
// exist and still be open.
func (h CreateOrderEditCommandHandler) Handle(ctx context.Context, cmd CreateOrderEditCommand) (kernel.ID, error) {
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
	if o.Status() != order.StatusOpen {
		return kernel.ID{}, errs.NewDomainRuleViolationError("create-order-edit",
			"only open orders can be edited")
	}

	edit, err := orderedit.NewOrderEdit(cmd.StoreID(), cmd.OrderID())
	if err != nil {
		return kernel.ID{}, err
	}

	batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
		ports.IDKindOrderEdit: 1,
	})
	if err != nil {
		return kernel.ID{}, err
	}
	editID, err := batch.Next(ports.IDKindOrderEdit)
	if err != nil {
		return kernel.ID{}, err
	}
	if err = edit.AssignIdentifiers(editID, nil); err != nil {
		return kernel.ID{}, err
	}

	if err = uow.OrderEditRepository().Add(ctx, edit); err != nil {
		return kernel.ID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ID{}, err
	}

	return editID, nil
}
