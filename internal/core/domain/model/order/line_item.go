package order

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/rules"
	"ordercore/internal/pkg/errs"
)

// ErrLineItemIsNotConstructed is returned when a LineItem instance was not
// created through one of its constructors.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem, NewCustomLineItem, or RestoreLineItem")

// LineItem is a nested entity owned exclusively by its Order. It records one
// purchasable position: the ordered variant (or a custom item), quantity,
// unit price, applied taxes and discounts, and how much of the quantity has
// been fulfilled or refunded so far.
//
// Invariants maintained through the Order aggregate:
//   - fulfilled + refunded quantity never exceeds the ordered quantity
//   - fulfillable quantity = quantity − fulfilled − refunded
//   - totals derived from the line are always recomputed, never trusted
type LineItem struct {
	// id is zero until the id generation service assigns identifiers
	// right before first persistence.
	id kernel.ID

	// variantID references the purchased product variant; nil for custom items.
	variantID *kernel.ID

	// productID references the product owning the variant; nil for custom items.
	productID *kernel.ID

	title            string
	quantity         int
	price            kernel.Money
	taxable          bool
	requiresShipping bool

	fulfilledQuantity int
	refundedQuantity  int

	taxLines            []TaxLine
	discountAllocations []DiscountAllocation

	isConstructed bool
}

// NewLineItem creates a line item for a product variant.
// Quantity must be positive and the price a constructed Money.
func NewLineItem(variantID, productID kernel.ID, title string, quantity int, price kernel.Money, taxable, requiresShipping bool) (*LineItem, error) {
	li := &LineItem{isConstructed: true}

	if err := errors.Join(
		li.setVariant(variantID, productID),
		li.setTitle(title),
		li.setQuantity(quantity),
		li.setPrice(price),
	); err != nil {
		return nil, err
	}

	li.taxable = taxable
	li.requiresShipping = requiresShipping
	return li, nil
}

// NewCustomLineItem creates a line item without a backing variant, as staged
// by an order edit's AddCustomItem change.
func NewCustomLineItem(title string, quantity int, price kernel.Money, taxable, requiresShipping bool) (*LineItem, error) {
	li := &LineItem{isConstructed: true}

	if err := errors.Join(
		li.setTitle(title),
		li.setQuantity(quantity),
		li.setPrice(price),
	); err != nil {
		return nil, err
	}

	li.taxable = taxable
	li.requiresShipping = requiresShipping
	return li, nil
}

// RestoreLineItem reconstructs a line item from persistence, including its
// fulfillment and refund progress, tax lines, and discount allocations.
func RestoreLineItem(
	id kernel.ID,
	variantID, productID *kernel.ID,
	title string,
	quantity int,
	price kernel.Money,
	taxable, requiresShipping bool,
	fulfilledQuantity, refundedQuantity int,
	taxLines []TaxLine,
	discountAllocations []DiscountAllocation,
) (*LineItem, error) {
	li := &LineItem{isConstructed: true}

	if err := errors.Join(
		id.Validate(),
		li.setTitle(title),
		li.setQuantity(quantity),
		li.setPrice(price),
	); err != nil {
		return nil, err
	}

	if fulfilledQuantity < 0 || refundedQuantity < 0 {
		return nil, errs.NewValueIsInvalidError("line item progress quantities")
	}
	if fulfilledQuantity+refundedQuantity > quantity {
		return nil, errs.NewValueIsInvalidErrorWithCause("line item progress quantities",
			fmt.Errorf("fulfilled %d + refunded %d exceeds ordered %d",
				fulfilledQuantity, refundedQuantity, quantity))
	}

	li.id = id
	li.variantID = variantID
	li.productID = productID
	li.taxable = taxable
	li.requiresShipping = requiresShipping
	li.fulfilledQuantity = fulfilledQuantity
	li.refundedQuantity = refundedQuantity
	li.taxLines = taxLines
	li.discountAllocations = discountAllocations
	return li, nil
}

// Validate ensures the LineItem was created through a constructor.
func (li *LineItem) Validate() error {
	if li == nil || !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ID returns the line item identifier; zero until assigned.
func (li *LineItem) ID() kernel.ID {
	return li.id
}

// VariantID returns the purchased variant id, or nil for custom items.
func (li *LineItem) VariantID() *kernel.ID {
	return li.variantID
}

// ProductID returns the owning product id, or nil for custom items.
func (li *LineItem) ProductID() *kernel.ID {
	return li.productID
}

// Title returns the display title of the line.
func (li *LineItem) Title() string {
	return li.title
}

// Quantity returns the ordered quantity.
func (li *LineItem) Quantity() int {
	return li.quantity
}

// Price returns the unit price.
func (li *LineItem) Price() kernel.Money {
	return li.price
}

// Taxable reports whether taxes apply to the line.
func (li *LineItem) Taxable() bool {
	return li.taxable
}

// RequiresShipping reports whether the line needs physical fulfillment.
func (li *LineItem) RequiresShipping() bool {
	return li.requiresShipping
}

// FulfilledQuantity returns how many units have shipped.
func (li *LineItem) FulfilledQuantity() int {
	return li.fulfilledQuantity
}

// RefundedQuantity returns how many units have been refunded.
func (li *LineItem) RefundedQuantity() int {
	return li.refundedQuantity
}

// FulfillableQuantity returns quantity − fulfilled − refunded, floored at zero.
func (li *LineItem) FulfillableQuantity() int {
	remaining := li.quantity - li.fulfilledQuantity - li.refundedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RefundableQuantity returns quantity − refunded.
func (li *LineItem) RefundableQuantity() int {
	return li.quantity - li.refundedQuantity
}

// IsCustom reports whether the line has no backing variant.
func (li *LineItem) IsCustom() bool {
	return li.variantID == nil
}

// TaxLines returns a copy of the applied tax lines.
func (li *LineItem) TaxLines() []TaxLine {
	out := make([]TaxLine, len(li.taxLines))
	copy(out, li.taxLines)
	return out
}

// DiscountAllocations returns a copy of the applied discount allocations.
func (li *LineItem) DiscountAllocations() []DiscountAllocation {
	out := make([]DiscountAllocation, len(li.discountAllocations))
	copy(out, li.discountAllocations)
	return out
}

// TotalDiscount sums the line's discount allocations.
func (li *LineItem) TotalDiscount() kernel.Money {
	total, _ := kernel.ZeroMoney(li.price.Currency())
	for _, a := range li.discountAllocations {
		total, _ = total.Add(a.amount)
	}
	return total
}

// SubtotalPrice returns unit price × quantity before discounts and taxes.
func (li *LineItem) SubtotalPrice() kernel.Money {
	return li.price.MulInt(li.quantity)
}

// TotalTax sums the line's tax line amounts.
func (li *LineItem) TotalTax() kernel.Money {
	total, _ := kernel.ZeroMoney(li.price.Currency())
	for _, tl := range li.taxLines {
		total, _ = total.Add(tl.price)
	}
	return total
}

// IsEqual compares two line items by identifier.
func (li *LineItem) IsEqual(other *LineItem) bool {
	return other != nil && li.id.IsEqual(other.id)
}

// assignID is called exactly once by the owning order when the id generation
// service hands out identifiers before first persistence.
func (li *LineItem) assignID(id kernel.ID) error {
	if !li.id.IsZero() {
		return errs.NewValueIsInvalidError("line item id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

// fulfillRule is the invariant guarding fulfillment recording: the requested
// quantity must be positive and within the line's fulfillable quantity.
func (li *LineItem) fulfillRule(requested int) rules.Rule {
	return rules.New("fulfill-line-item",
		func() bool { return requested > 0 && requested <= li.FulfillableQuantity() },
		func() string {
			return fmt.Sprintf("requested %d exceeds fulfillable %d on line %s",
				requested, li.FulfillableQuantity(), li.id)
		})
}

// refundRule is the invariant guarding refunds: the requested quantity must
// be positive and within ordered − previously refunded.
func (li *LineItem) refundRule(requested int) rules.Rule {
	return rules.New("refund-line-item",
		func() bool { return requested > 0 && requested <= li.RefundableQuantity() },
		func() string {
			return fmt.Sprintf("requested %d exceeds refundable %d on line %s",
				requested, li.RefundableQuantity(), li.id)
		})
}

// recordFulfillment increases the fulfilled quantity. Callers must have
// checked fulfillRule for the whole batch first.
func (li *LineItem) recordFulfillment(quantity int) {
	li.fulfilledQuantity += quantity
}

// recordRefund increases the refunded quantity. Callers must have checked
// refundRule for the whole batch first.
func (li *LineItem) recordRefund(quantity int) {
	li.refundedQuantity += quantity
}

// changeQuantity sets a new ordered quantity during an order edit.
// The new quantity cannot undercut already fulfilled or refunded units.
func (li *LineItem) changeQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("line item quantity",
			fmt.Errorf("%d is negative", quantity))
	}
	if quantity < li.fulfilledQuantity+li.refundedQuantity {
		return errs.NewDomainRuleViolationError("set-item-quantity",
			fmt.Sprintf("quantity %d undercuts fulfilled %d + refunded %d on line %s",
				quantity, li.fulfilledQuantity, li.refundedQuantity, li.id))
	}

	li.quantity = quantity
	return nil
}

// setTaxLines replaces the line's tax lines; used by the tax calculator.
func (li *LineItem) setTaxLines(taxLines []TaxLine) {
	li.taxLines = taxLines
}

// setDiscountAllocations replaces the line's discount allocations.
func (li *LineItem) setDiscountAllocations(allocations []DiscountAllocation) {
	li.discountAllocations = allocations
}

func (li *LineItem) setVariant(variantID, productID kernel.ID) error {
	if err := errors.Join(variantID.Validate(), productID.Validate()); err != nil {
		return err
	}
	li.variantID = &variantID
	li.productID = &productID
	return nil
}

func (li *LineItem) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("line item title")
	}
	li.title = title
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("line item quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}

func (li *LineItem) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if price.IsNegative() {
		return errs.NewValueIsInvalidError("line item price")
	}
	li.price = price
	return nil
}
