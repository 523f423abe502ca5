package fulfillmentorder

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/rules"
	"ordercore/internal/pkg/errs"
)

// ErrLineItemIsNotConstructed is returned when a LineItem instance was not
// created through NewLineItem or RestoreLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem or RestoreLineItem")

// LineItem is a nested entity owned by its fulfillment order. It mirrors one
// order line item routed to the assigned location and tracks how much of it
// is still waiting to ship.
type LineItem struct {
	// id is zero until the id generation service assigns identifiers
	// right before first persistence.
	id kernel.ID

	orderLineItemID kernel.ID

	// variantID is nil for custom items without a backing variant.
	variantID *kernel.ID

	orderableQuantity int
	remainingQuantity int

	isConstructed bool
}

// NewLineItem creates a fulfillment order line for a routed order line.
// The remaining quantity starts equal to the orderable quantity.
func NewLineItem(orderLineItemID kernel.ID, variantID *kernel.ID, quantity int) (*LineItem, error) {
	li := &LineItem{isConstructed: true}

	if err := orderLineItemID.Validate(); err != nil {
		return nil, err
	}
	if variantID != nil {
		if err := variantID.Validate(); err != nil {
			return nil, err
		}
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("fulfillment order line quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	li.orderLineItemID = orderLineItemID
	li.variantID = variantID
	li.orderableQuantity = quantity
	li.remainingQuantity = quantity
	return li, nil
}

// RestoreLineItem reconstructs a fulfillment order line from persistence.
func RestoreLineItem(id, orderLineItemID kernel.ID, variantID *kernel.ID, orderableQuantity, remainingQuantity int) (*LineItem, error) {
	li, err := NewLineItem(orderLineItemID, variantID, orderableQuantity)
	if err != nil {
		return nil, err
	}
	if err = id.Validate(); err != nil {
		return nil, err
	}
	if remainingQuantity < 0 || remainingQuantity > orderableQuantity {
		return nil, errs.NewValueIsInvalidErrorWithCause("fulfillment order line remaining quantity",
			fmt.Errorf("%d is outside 0..%d", remainingQuantity, orderableQuantity))
	}

	li.id = id
	li.remainingQuantity = remainingQuantity
	return li, nil
}

// Validate ensures the LineItem was created through a constructor.
func (li *LineItem) Validate() error {
	if li == nil || !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ID returns the line identifier; zero until assigned.
func (li *LineItem) ID() kernel.ID {
	return li.id
}

// OrderLineItemID returns the order line this work mirrors.
func (li *LineItem) OrderLineItemID() kernel.ID {
	return li.orderLineItemID
}

// VariantID returns the routed variant, or nil for custom items.
func (li *LineItem) VariantID() *kernel.ID {
	return li.variantID
}

// OrderableQuantity returns the quantity originally routed to the location.
func (li *LineItem) OrderableQuantity() int {
	return li.orderableQuantity
}

// RemainingQuantity returns how many units still wait to ship.
func (li *LineItem) RemainingQuantity() int {
	return li.remainingQuantity
}

// IsDrained reports whether nothing remains to ship on this line.
func (li *LineItem) IsDrained() bool {
	return li.remainingQuantity == 0
}

func (li *LineItem) assignID(id kernel.ID) error {
	if !li.id.IsZero() {
		return errs.NewValueIsInvalidError("fulfillment order line id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

// reduceRule is the invariant guarding remaining-quantity reduction: the
// requested quantity must be positive and never push remaining below zero.
func (li *LineItem) reduceRule(requested int) rules.Rule {
	return rules.New("reduce-remaining",
		func() bool { return requested > 0 && requested <= li.remainingQuantity },
		func() string {
			return fmt.Sprintf("requested %d exceeds remaining %d on fulfillment order line %s",
				requested, li.remainingQuantity, li.id)
		})
}

// reduceRemaining decreases the remaining quantity. Callers must have checked
// reduceRule for the whole batch first.
func (li *LineItem) reduceRemaining(quantity int) {
	li.remainingQuantity -= quantity
}
