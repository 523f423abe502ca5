package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var ErrDiscardOrderEditCommandIsNotConstructed = errors.New(
	"DiscardOrderEditCommand must be created via NewDiscardOrderEditCommand constructor",
)

// DiscardOrderEditCommand represents a request to abandon an edit session
// without applying any of its staged changes.
type DiscardOrderEditCommand struct { //nolint:recvcheck //using for validation
	storeID kernel.StoreID
	editID  kernel.ID

	guard guard.ConstructorGuard
}

// NewDiscardOrderEditCommand creates a command to discard an edit session.
func NewDiscardOrderEditCommand(storeID kernel.StoreID, editID kernel.ID) (DiscardOrderEditCommand, error) {
	cmd := DiscardOrderEditCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(storeID.Validate(), editID.Validate()); err != nil {
		return DiscardOrderEditCommand{}, err
	}

	cmd.storeID = storeID
	cmd.editID = editID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DiscardOrderEditCommand) Validate() error {
	return c.guard.Validate(ErrDiscardOrderEditCommandIsNotConstructed)
}

// StoreID returns the tenant the session belongs to.
func (c DiscardOrderEditCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// EditID returns the edit session to discard.
func (c DiscardOrderEditCommand) EditID() kernel.ID {
	return c.editID
}
