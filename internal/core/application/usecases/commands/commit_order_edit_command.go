package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var ErrCommitOrderEditCommandIsNotConstructed = errors.New(
	"CommitOrderEditCommand must be created via NewCommitOrderEditCommand constructor",
)

// CommitOrderEditCommand represents a request to resolve an edit session
// against its order, applying every staged change atomically.
type CommitOrderEditCommand struct { //nolint:recvcheck //using for validation
	storeID kernel.StoreID
	editID  kernel.ID

	guard guard.ConstructorGuard
}

// NewCommitOrderEditCommand creates a command to commit an edit session.
func NewCommitOrderEditCommand(storeID kernel.StoreID, editID kernel.ID) (CommitOrderEditCommand, error) {
	cmd := CommitOrderEditCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(storeID.Validate(), editID.Validate()); err != nil {
		return CommitOrderEditCommand{}, err
	}

	cmd.storeID = storeID
	cmd.editID = editID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CommitOrderEditCommand) Validate() error {
	return c.guard.Validate(ErrCommitOrderEditCommandIsNotConstructed)
}

// StoreID returns the tenant the session belongs to.
func (c CommitOrderEditCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// EditID returns the edit session to commit.
func (c CommitOrderEditCommand) EditID() kernel.ID {
	return c.editID
}
