package commands

import (
	"context"

	"ordercore/internal/core/ports"
)

// StageEditChangeCommandHandler stages a change into an open edit session.
// Consecutive add_variant changes for the same variant merge instead of
// duplicating, unless the change explicitly allows duplicates.
type StageEditChangeCommandHandler struct {
	uowFactory EditUoWFactory
}

// NewStageEditChangeCommandHandler creates a handler for staging changes.
func NewStageEditChangeCommandHandler(uowFactory EditUoWFactory) StageEditChangeCommandHandler {
	return StageEditChangeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle stages the change and persists the session. Newly staged changes
// receive identifiers from the shared counters before the write.
func (h StageEditChangeCommandHandler) Handle(ctx context.Context, cmd StageEditChangeCommand) error {
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

	if err = edit.StageChange(cmd.Change()); err != nil {
		return err
	}

	// A merged add_variant leaves no new change to identify.
	if pending := edit.PendingChangeIdentifierCount(); pending > 0 {
		batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
			ports.IDKindEditChange: pending,
		})
		if err != nil {
			return err
		}
		changeIDs, err := batch.Take(ports.IDKindEditChange, pending)
		if err != nil {
			return err
		}
		if err = edit.AssignPendingChangeIdentifiers(changeIDs); err != nil {
			return err
		}
	}

	if err = editRepo.Update(ctx, edit); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
