package commands

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNameIsRequired = errors.New("order name is required")
	ErrLineItemsAreRequired = errors.New("at least one line item is required")
)

// LineItemInput describes one requested order line. Variant lines carry both
// variant and product ids; custom lines carry neither.
type LineItemInput struct {
	VariantID        *kernel.ID
	ProductID        *kernel.ID
	Title            string
	Quantity         int
	Price            kernel.Money
	Taxable          bool
	RequiresShipping bool
}

// ShippingLineInput describes one requested shipping charge.
type ShippingLineInput struct {
	Title string
	Price kernel.Money
}

// CreateOrderCommand represents a request to create a new customer order
// with its line items and shipping charges.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(storeID, "#1001", currency, lines, shipping)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, customerLookup)
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	storeID       kernel.StoreID
	name          string
	currency      kernel.Currency
	lineItems     []LineItemInput
	shippingLines []ShippingLineInput

	customerID        *kernel.ID
	billingAddressID  *kernel.ID
	shippingAddressID *kernel.ID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the store id is valid, the name is not empty, the currency
// is valid, and at least one line item is present.
func NewCreateOrderCommand(
	storeID kernel.StoreID,
	name string,
	currency kernel.Currency,
	lineItems []LineItemInput,
	shippingLines []ShippingLineInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setStoreID(storeID),
		cmd.setName(name),
		cmd.setCurrency(currency),
		cmd.setLineItems(lineItems),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.shippingLines = shippingLines
	return cmd, nil
}

// WithCustomer attaches customer and address references to the command.
func (c CreateOrderCommand) WithCustomer(customerID, billingAddressID, shippingAddressID *kernel.ID) CreateOrderCommand {
	c.customerID = customerID
	c.billingAddressID = billingAddressID
	c.shippingAddressID = shippingAddressID
	return c
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// StoreID returns the tenant the order belongs to.
func (c CreateOrderCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// Name returns the human-facing order name.
func (c CreateOrderCommand) Name() string {
	return c.name
}

// Currency returns the order currency.
func (c CreateOrderCommand) Currency() kernel.Currency {
	return c.currency
}

// LineItems returns the requested order lines.
func (c CreateOrderCommand) LineItems() []LineItemInput {
	return c.lineItems
}

// ShippingLines returns the requested shipping charges.
func (c CreateOrderCommand) ShippingLines() []ShippingLineInput {
	return c.shippingLines
}

// CustomerID returns the optional customer reference.
func (c CreateOrderCommand) CustomerID() *kernel.ID {
	return c.customerID
}

// BillingAddressID returns the optional billing address reference.
func (c CreateOrderCommand) BillingAddressID() *kernel.ID {
	return c.billingAddressID
}

// ShippingAddressID returns the optional shipping address reference.
func (c CreateOrderCommand) ShippingAddressID() *kernel.ID {
	return c.shippingAddressID
}

func (c *CreateOrderCommand) setStoreID(storeID kernel.StoreID) error {
	if err := storeID.Validate(); err != nil {
		return err
	}

	c.storeID = storeID
	return nil
}

func (c *CreateOrderCommand) setName(name string) error {
	if name == "" {
		return ErrOrderNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateOrderCommand) setCurrency(currency kernel.Currency) error {
	if err := currency.Validate(); err != nil {
		return err
	}

	c.currency = currency
	return nil
}

func (c *CreateOrderCommand) setLineItems(lineItems []LineItemInput) error {
	if len(lineItems) == 0 {
		return ErrLineItemsAreRequired
	}

	c.lineItems = lineItems
	return nil
}
