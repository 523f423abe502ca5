package fulfillmentorder

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/rules"
	"ordercore/internal/pkg/errs"
)

// ErrFulfillmentOrderIsNotConstructed is returned when a FulfillmentOrder was
// not created through NewFulfillmentOrder or RestoreFulfillmentOrder.
var ErrFulfillmentOrderIsNotConstructed = errors.New("FulfillmentOrder must be created via NewFulfillmentOrder or RestoreFulfillmentOrder")

// ReduceQuantity requests draining remaining quantity from one fulfillment
// order line.
type ReduceQuantity struct {
	LineItemID kernel.ID
	Quantity   int
}

// FulfillmentOrder is the aggregate root for a unit of fulfillment work
// assigned to one location. The router creates one per (order, location)
// pair; recording a fulfillment drains the remaining quantities.
//
// Invariants:
//   - remaining quantity per line never drops below zero
//   - only active (open or in_progress) fulfillment orders accept work
//   - the aggregate references its order by id only
type FulfillmentOrder struct {
	id                 kernel.ID
	storeID            kernel.StoreID
	orderID            kernel.ID
	assignedLocationID kernel.ID

	status         Status
	deliveryMethod ExpectedDeliveryMethod
	destination    Destination

	lineItems []*LineItem

	isConstructed bool
}

// NewFulfillmentOrder creates an open fulfillment order for work routed to
// one location. Line items must be non-empty.
func NewFulfillmentOrder(
	storeID kernel.StoreID,
	orderID kernel.ID,
	assignedLocationID kernel.ID,
	deliveryMethod ExpectedDeliveryMethod,
	destination Destination,
	lineItems []*LineItem,
) (*FulfillmentOrder, error) {
	fo := &FulfillmentOrder{
		status:        StatusOpen,
		isConstructed: true,
	}

	if err := errors.Join(
		storeID.Validate(),
		orderID.Validate(),
		assignedLocationID.Validate(),
		deliveryMethod.Validate(),
	); err != nil {
		return nil, err
	}
	if len(lineItems) == 0 {
		return nil, errs.NewValueIsRequiredError("fulfillment order line items")
	}
	for _, li := range lineItems {
		if err := li.Validate(); err != nil {
			return nil, err
		}
	}

	fo.storeID = storeID
	fo.orderID = orderID
	fo.assignedLocationID = assignedLocationID
	fo.deliveryMethod = deliveryMethod
	fo.destination = destination
	fo.lineItems = lineItems
	return fo, nil
}

// RestoreFulfillmentOrder reconstructs a fulfillment order from persistence.
func RestoreFulfillmentOrder(
	id kernel.ID,
	storeID kernel.StoreID,
	orderID kernel.ID,
	assignedLocationID kernel.ID,
	status Status,
	deliveryMethod ExpectedDeliveryMethod,
	destination Destination,
	lineItems []*LineItem,
) (*FulfillmentOrder, error) {
	fo, err := NewFulfillmentOrder(storeID, orderID, assignedLocationID, deliveryMethod, destination, lineItems)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	fo.id = id
	fo.status = status
	return fo, nil
}

// Validate ensures the FulfillmentOrder was created through a constructor.
func (fo *FulfillmentOrder) Validate() error {
	if fo == nil || !fo.isConstructed {
		return ErrFulfillmentOrderIsNotConstructed
	}
	return nil
}

// AssignIdentifiers assigns the allocated identifiers to the fulfillment
// order and its lines, consuming the batch first-in-first-out.
func (fo *FulfillmentOrder) AssignIdentifiers(id kernel.ID, lineItemIDs []kernel.ID) error {
	if !fo.id.IsZero() {
		return errs.NewValueIsInvalidError("fulfillment order id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	if len(lineItemIDs) != len(fo.lineItems) {
		return errs.NewValueIsInvalidErrorWithCause("identifier batch sizes",
			fmt.Errorf("got %d line ids, need %d", len(lineItemIDs), len(fo.lineItems)))
	}

	fo.id = id
	for i, li := range fo.lineItems {
		if err := li.assignID(lineItemIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// AcceptWork marks the assigned location as working on the order.
func (fo *FulfillmentOrder) AcceptWork() error {
	if err := fo.Validate(); err != nil {
		return err
	}

	newStatus, err := fo.status.Accept()
	if err != nil {
		return err
	}
	fo.status = newStatus
	return nil
}

// ReduceRemaining drains remaining quantities after a fulfillment is
// recorded. The whole batch is validated before any line is mutated, and the
// fulfillment order closes itself once every line is drained.
func (fo *FulfillmentOrder) ReduceRemaining(reductions []ReduceQuantity) error {
	if err := fo.Validate(); err != nil {
		return err
	}
	if !fo.status.IsActive() {
		return errs.NewDomainRuleViolationError("fulfillment-order-is-active",
			fmt.Sprintf("cannot reduce remaining on %s fulfillment order %s", fo.status, fo.id))
	}
	if len(reductions) == 0 {
		return errs.NewValueIsRequiredError("reduce quantities")
	}

	batchRules := make([]rules.Rule, 0, len(reductions))
	targets := make([]*LineItem, 0, len(reductions))
	for _, rq := range reductions {
		li, err := fo.lineItem(rq.LineItemID)
		if err != nil {
			return err
		}
		batchRules = append(batchRules, li.reduceRule(rq.Quantity))
		targets = append(targets, li)
	}
	if err := rules.CheckAll(batchRules...); err != nil {
		return err
	}

	for i, rq := range reductions {
		targets[i].reduceRemaining(rq.Quantity)
	}

	if fo.RemainingTotal() == 0 {
		newStatus, err := fo.status.Close()
		if err != nil {
			return err
		}
		fo.status = newStatus
	}
	return nil
}

// Close archives a fulfillment order whose remaining quantity is fully
// drained.
func (fo *FulfillmentOrder) Close() error {
	if err := fo.Validate(); err != nil {
		return err
	}
	if err := rules.CheckAll(rules.New("close-fulfillment-order",
		func() bool { return fo.RemainingTotal() == 0 },
		func() string {
			return fmt.Sprintf("fulfillment order %s still has %d remaining units", fo.id, fo.RemainingTotal())
		})); err != nil {
		return err
	}

	newStatus, err := fo.status.Close()
	if err != nil {
		return err
	}
	fo.status = newStatus
	return nil
}

// Cancel withdraws the work from the assigned location.
func (fo *FulfillmentOrder) Cancel() error {
	if err := fo.Validate(); err != nil {
		return err
	}

	newStatus, err := fo.status.Cancel()
	if err != nil {
		return err
	}
	fo.status = newStatus
	return nil
}

// IsEqual compares two fulfillment orders by identifier.
func (fo *FulfillmentOrder) IsEqual(other *FulfillmentOrder) bool {
	return other != nil && fo.id.IsEqual(other.id)
}

// ID returns the fulfillment order identifier; zero until assigned.
func (fo *FulfillmentOrder) ID() kernel.ID { return fo.id }

// StoreID returns the owning tenant.
func (fo *FulfillmentOrder) StoreID() kernel.StoreID { return fo.storeID }

// OrderID returns the order this work belongs to.
func (fo *FulfillmentOrder) OrderID() kernel.ID { return fo.orderID }

// AssignedLocationID returns the location doing the work.
func (fo *FulfillmentOrder) AssignedLocationID() kernel.ID { return fo.assignedLocationID }

// Status returns the lifecycle status.
func (fo *FulfillmentOrder) Status() Status { return fo.status }

// ExpectedDeliveryMethod returns how the goods reach the buyer.
func (fo *FulfillmentOrder) ExpectedDeliveryMethod() ExpectedDeliveryMethod { return fo.deliveryMethod }

// Destination returns the destination snapshot captured at routing time.
func (fo *FulfillmentOrder) Destination() Destination { return fo.destination }

// LineItems returns the owned lines in order.
func (fo *FulfillmentOrder) LineItems() []*LineItem {
	out := make([]*LineItem, len(fo.lineItems))
	copy(out, fo.lineItems)
	return out
}

// RemainingTotal sums the remaining quantity across all lines.
func (fo *FulfillmentOrder) RemainingTotal() int {
	total := 0
	for _, li := range fo.lineItems {
		total += li.remainingQuantity
	}
	return total
}

// LineByOrderLineItemID finds the line mirroring the given order line.
func (fo *FulfillmentOrder) LineByOrderLineItemID(orderLineItemID kernel.ID) (*LineItem, error) {
	for _, li := range fo.lineItems {
		if li.orderLineItemID.IsEqual(orderLineItemID) {
			return li, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderLineItemId", orderLineItemID.String())
}

func (fo *FulfillmentOrder) lineItem(id kernel.ID) (*LineItem, error) {
	for _, li := range fo.lineItems {
		if li.id.IsEqual(id) {
			return li, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("fulfillmentOrderLineItemId", id.String())
}
