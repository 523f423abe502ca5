package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
	ErrCancelReasonIsRequired = errors.New("cancellation reason is required")
)

// CancelOrderCommand represents a request to cancel an order and withdraw
// its outstanding fulfillment work.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	storeID kernel.StoreID
	orderID kernel.ID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order.
func NewCancelOrderCommand(storeID kernel.StoreID, orderID kernel.ID, reason string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		storeID.Validate(),
		orderID.Validate(),
		cmd.setReason(reason),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.storeID = storeID
	cmd.orderID = orderID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// StoreID returns the tenant the order belongs to.
func (c CancelOrderCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.ID {
	return c.orderID
}

// Reason returns the cancellation reason.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}

func (c *CancelOrderCommand) setReason(reason string) error {
	if reason == "" {
		return ErrCancelReasonIsRequired
	}

	c.reason = reason
	return nil
}
