package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/refund"
	"ordercore/internal/pkg/guard"
)

var (
	ErrCreateRefundCommandIsNotConstructed = errors.New(
		"CreateRefundCommand must be created via NewCreateRefundCommand constructor",
	)
	ErrRefundReturnsNothing = errors.New("a refund must return line quantities or shipping")
)

// RefundLineInput requests refunding a quantity of one order line, with the
// restocking disposition for the returned units.
type RefundLineInput struct {
	OrderLineItemID kernel.ID
	Quantity        int
	RestockType     refund.RestockType
	LocationID      *kernel.ID
}

// CreateRefundCommand represents a request to refund parts of an order:
// line quantities, optionally the shipping charge, or both.
type CreateRefundCommand struct { //nolint:recvcheck //using for validation
	storeID        kernel.StoreID
	orderID        kernel.ID
	note           string
	lines          []RefundLineInput
	refundShipping bool
	shippingAmount *kernel.Money
	gateway        string

	guard guard.ConstructorGuard
}

// NewCreateRefundCommand creates a command to refund an order. Requires at
// least one line or the shipping flag; a nil shipping amount refunds the
// full charge.
func NewCreateRefundCommand(
	storeID kernel.StoreID,
	orderID kernel.ID,
	note string,
	lines []RefundLineInput,
	refundShipping bool,
	shippingAmount *kernel.Money,
	gateway string,
) (CreateRefundCommand, error) {
	cmd := CreateRefundCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return CreateRefundCommand{}, err
	}
	if len(lines) == 0 && !refundShipping {
		return CreateRefundCommand{}, ErrRefundReturnsNothing
	}

	cmd.storeID = storeID
	cmd.orderID = orderID
	cmd.note = note
	cmd.lines = lines
	cmd.refundShipping = refundShipping
	cmd.shippingAmount = shippingAmount
	cmd.gateway = gateway
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateRefundCommand) Validate() error {
	return c.guard.Validate(ErrCreateRefundCommandIsNotConstructed)
}

// StoreID returns the tenant the order belongs to.
func (c CreateRefundCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// OrderID returns the order to refund.
func (c CreateRefundCommand) OrderID() kernel.ID {
	return c.orderID
}

// Note returns the optional merchant note.
func (c CreateRefundCommand) Note() string {
	return c.note
}

// Lines returns the requested line refunds.
func (c CreateRefundCommand) Lines() []RefundLineInput {
	return c.lines
}

// RefundShipping reports whether the shipping charge is refunded.
func (c CreateRefundCommand) RefundShipping() bool {
	return c.refundShipping
}

// ShippingAmount returns the requested shipping portion; nil means full.
func (c CreateRefundCommand) ShippingAmount() *kernel.Money {
	return c.shippingAmount
}

// Gateway returns the preferred payment gateway for refund transactions.
func (c CreateRefundCommand) Gateway() string {
	return c.gateway
}
