package commands

import (
	"context"
)

// DiscardOrderEditCommandHandler abandons an edit session. The order is
// never touched; staged changes simply stop mattering.
type DiscardOrderEditCommandHandler struct {
	uowFactory EditUoWFactory
}

// NewDiscardOrderEditCommandHandler creates a handler for discarding edit
// sessions.
func NewDiscardOrderEditCommandHandler(uowFactory EditUoWFactory) DiscardOrderEditCommandHandler {
	return DiscardOrderEditCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle discards the session. Only open sessions can be discarded.
func (h DiscardOrderEditCommandHandler) Handle(ctx context.Context, cmd DiscardOrderEditCommand) error {
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

	editRepo := uow.OrderEditRepository()
	edit, err := editRepo.Get(ctx, cmd.StoreID(), cmd.EditID())
	if err != nil {
		return err
	}

	if err = edit.Discard(); err != nil {
		return err
	}

	if err = editRepo.Update(ctx, edit); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
