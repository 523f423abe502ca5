package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var ErrCreateOrderEditCommandIsNotConstructed = errors.New(
	"CreateOrderEditCommand must be created via NewCreateOrderEditCommand constructor",
)

// CreateOrderEditCommand represents a request to open an edit session
// against an order. Changes staged into the session take effect only when
// the session commits.
type CreateOrderEditCommand struct { //nolint:recvcheck //using for validation
	storeID kernel.StoreID
	orderID kernel.ID

	guard guard.ConstructorGuard
}

// NewCreateOrderEditCommand creates a command to open an edit session.
func NewCreateOrderEditCommand(storeID kernel.StoreID, orderID kernel.ID) (CreateOrderEditCommand, error) {
	cmd := CreateOrderEditCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return CreateOrderEditCommand{}, err
	}

	cmd.storeID = storeID
	cmd.orderID = orderID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderEditCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderEditCommandIsNotConstructed)
}

// StoreID returns the tenant the order belongs to.
func (c CreateOrderEditCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// OrderID returns the order the session edits.
func (c CreateOrderEditCommand) OrderID() kernel.ID {
	return c.orderID
}
