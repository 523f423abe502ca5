package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/pkg/errs"
)

// VariantInfo is the product metadata the committer needs to turn an
// add_variant change into an order line.
type VariantInfo struct {
	VariantID        kernel.ID
	ProductID        kernel.ID
	Title            string
	Price            kernel.Money
	Taxable          bool
	RequiresShipping bool
}

// CommitInput carries the collaborator data resolved by the use case before
// committing: variant metadata for staged add_variant changes and
// pre-allocated identifiers for the discount applications the commit will
// create, in staging order.
type CommitInput struct {
	Variants               map[int64]VariantInfo
	DiscountApplicationIDs []kernel.ID
}

// EditCommitter is a domain service resolving a staged edit session against
// its order, all-or-nothing.
//
// Resolution walks the staged changes in staging order. Every change is
// validated against the current order snapshot before anything mutates, so
// one conflicting change (unknown line, quantity undercutting fulfilled
// units, missing variant) fails the entire commit and leaves both the order
// and the edit session untouched — the session stays open for correction.
type EditCommitter struct{}

// NewEditCommitter creates a new EditCommitter instance.
func NewEditCommitter() EditCommitter {
	return EditCommitter{}
}

// Commit resolves every staged change against the order, then flips the edit
// to committed and records the edit-applied event on the order.
func (c EditCommitter) Commit(o *order.Order, edit *orderedit.OrderEdit, input CommitInput) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := edit.Validate(); err != nil {
		return err
	}
	if !edit.Status().IsOpen() {
		return errs.NewDomainRuleViolationError("commit-edit",
			fmt.Sprintf("edit %s is %s", edit.ID(), edit.Status()))
	}
	if !edit.OrderID().IsEqual(o.ID()) {
		return errs.NewDomainRuleViolationError("commit-edit",
			fmt.Sprintf("edit %s targets order %s, not %s", edit.ID(), edit.OrderID(), o.ID()))
	}

	changes := edit.Changes()
	if err := c.checkAll(o, changes, input); err != nil {
		return err
	}

	if err := c.applyAll(o, changes, input); err != nil {
		return err
	}

	if err := edit.Commit(); err != nil {
		return err
	}
	return o.RecordEditApplied(edit.ID())
}

// checkAll validates every change against the order snapshot without
// mutating anything. Quantities are tracked through the walk so later
// changes see the effect of earlier ones.
func (c EditCommitter) checkAll(o *order.Order, changes []*orderedit.Change, input CommitInput) error {
	lineCount := len(o.LineItems())
	discounts := 0

	for _, change := range changes {
		switch change.Kind() {
		case orderedit.ChangeKindAddVariant:
			if _, ok := input.Variants[change.VariantID().Int64()]; !ok {
				return errs.NewObjectNotFoundError("variantId", change.VariantID().String())
			}
			lineCount++

		case orderedit.ChangeKindAddCustomItem:
			lineCount++

		case orderedit.ChangeKindSetItemQuantity:
			li, err := c.findLine(o, *change.LineItemID())
			if err != nil {
				return err
			}
			if change.Quantity() == 0 {
				if li.FulfilledQuantity() > 0 {
					return errs.NewDomainRuleViolationError("remove-line-item",
						fmt.Sprintf("line %s has %d fulfilled units", li.ID(), li.FulfilledQuantity()))
				}
				lineCount--
				if lineCount == 0 {
					return errs.NewDomainRuleViolationError("remove-line-item",
						"an order must keep at least one line item")
				}
			} else if change.Quantity() < li.FulfilledQuantity()+li.RefundedQuantity() {
				return errs.NewDomainRuleViolationError("set-item-quantity",
					fmt.Sprintf("quantity %d undercuts fulfilled %d + refunded %d on line %s",
						change.Quantity(), li.FulfilledQuantity(), li.RefundedQuantity(), li.ID()))
			}

		case orderedit.ChangeKindSetItemDiscount:
			li, err := c.findLine(o, *change.LineItemID())
			if err != nil {
				return err
			}
			if li.RefundableQuantity() == 0 {
				return errs.NewDomainRuleViolationError("set-item-discount",
					fmt.Sprintf("line %s is fully refunded", li.ID()))
			}
			discounts++

		default:
			return errs.NewValueIsInvalidErrorWithCause("change kind",
				fmt.Errorf("%d is not a valid change kind", change.Kind()))
		}
	}

	if discounts != len(input.DiscountApplicationIDs) {
		return errs.NewValueIsInvalidErrorWithCause("identifier batch sizes",
			fmt.Errorf("got %d discount application ids, need %d",
				len(input.DiscountApplicationIDs), discounts))
	}
	return nil
}

// applyAll mutates the order in staging order. checkAll ran first, so
// failures here are unexpected and abort the commit before persistence.
func (c EditCommitter) applyAll(o *order.Order, changes []*orderedit.Change, input CommitInput) error {
	nextDiscountID := 0

	for _, change := range changes {
		switch change.Kind() {
		case orderedit.ChangeKindAddVariant:
			info := input.Variants[change.VariantID().Int64()]
			li, err := order.NewLineItem(info.VariantID, info.ProductID, info.Title,
				change.Quantity(), info.Price, info.Taxable, info.RequiresShipping)
			if err != nil {
				return err
			}
			if err = o.AddLineItems(li); err != nil {
				return err
			}

		case orderedit.ChangeKindAddCustomItem:
			li, err := order.NewCustomLineItem(change.Title(), change.Quantity(),
				change.Price(), change.Taxable(), change.RequiresShipping())
			if err != nil {
				return err
			}
			if err = o.AddLineItems(li); err != nil {
				return err
			}

		case orderedit.ChangeKindSetItemQuantity:
			if err := o.SetLineItemQuantity(*change.LineItemID(), change.Quantity()); err != nil {
				return err
			}

		case orderedit.ChangeKindSetItemDiscount:
			application, err := c.discountApplication(change, input.DiscountApplicationIDs[nextDiscountID])
			if err != nil {
				return err
			}
			nextDiscountID++
			if err = o.SetLineItemDiscount(*change.LineItemID(), application); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c EditCommitter) discountApplication(change *orderedit.Change, id kernel.ID) (order.DiscountApplication, error) {
	var kind order.DiscountKind
	var value decimal.Decimal
	if change.FixedValue() != nil {
		kind = order.DiscountKindFixed
		value = *change.FixedValue()
	} else {
		kind = order.DiscountKindPercentage
		value = *change.PercentValue()
	}
	return order.NewDiscountApplication(id, kind, value, change.Title())
}

func (c EditCommitter) findLine(o *order.Order, lineItemID kernel.ID) (*order.LineItem, error) {
	for _, li := range o.LineItems() {
		if li.ID().IsEqual(lineItemID) {
			return li, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("lineItemId", lineItemID.String())
}
