package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/pkg/guard"
)

var (
	ErrStageEditChangeCommandIsNotConstructed = errors.New(
		"StageEditChangeCommand must be created via NewStageEditChangeCommand constructor",
	)
	ErrChangeIsRequired = errors.New("change is required")
)

// StageEditChangeCommand represents a request to stage one change into an
// open edit session. The change itself is built through the orderedit
// constructors, so its shape is already validated.
type StageEditChangeCommand struct { //nolint:recvcheck //using for validation
	storeID kernel.StoreID
	editID  kernel.ID
	change  *orderedit.Change

	guard guard.ConstructorGuard
}

// NewStageEditChangeCommand creates a command to stage a change.
func NewStageEditChangeCommand(storeID kernel.StoreID, editID kernel.ID, change *orderedit.Change) (StageEditChangeCommand, error) {
	cmd := StageEditChangeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		storeID.Validate(),
		editID.Validate(),
		cmd.setChange(change),
	); err != nil {
		return StageEditChangeCommand{}, err
	}

	cmd.storeID = storeID
	cmd.editID = editID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StageEditChangeCommand) Validate() error {
	return c.guard.Validate(ErrStageEditChangeCommandIsNotConstructed)
}

// StoreID returns the tenant the session belongs to.
func (c StageEditChangeCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// EditID returns the edit session to stage into.
func (c StageEditChangeCommand) EditID() kernel.ID {
	return c.editID
}

// Change returns the change to stage.
func (c StageEditChangeCommand) Change() *orderedit.Change {
	return c.change
}

func (c *StageEditChangeCommand) setChange(change *orderedit.Change) error {
	if change == nil {
		return ErrChangeIsRequired
	}
	if err := change.Validate(); err != nil {
		return err
	}

	c.change = change
	return nil
}
