package fulfillment

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrFulfillmentIsNotConstructed is returned when a Fulfillment was not
// created through NewFulfillment or RestoreFulfillment.
var ErrFulfillmentIsNotConstructed = errors.New("Fulfillment must be created via NewFulfillment or RestoreFulfillment")

// ErrLineIsNotConstructed is returned when a Line was not created through
// NewLine or RestoreLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine or RestoreLine")

// TrackingInfo is an immutable snapshot of the carrier handoff details.
type TrackingInfo struct {
	company string
	number  string
	url     string
}

// NewTrackingInfo builds tracking details; all fields are optional.
func NewTrackingInfo(company, number, url string) TrackingInfo {
	return TrackingInfo{company: company, number: number, url: url}
}

// Company returns the carrier name.
func (t TrackingInfo) Company() string { return t.company }

// Number returns the tracking number.
func (t TrackingInfo) Number() string { return t.number }

// URL returns the tracking page link.
func (t TrackingInfo) URL() string { return t.url }

// IsEqual compares tracking details field by field.
func (t TrackingInfo) IsEqual(other TrackingInfo) bool {
	return t == other
}

// Line is a nested entity recording how many units of one order line shipped,
// and which fulfillment order line the quantity was drained from.
type Line struct {
	id kernel.ID

	fulfillmentOrderID         kernel.ID
	fulfillmentOrderLineItemID kernel.ID
	orderLineItemID            kernel.ID
	quantity                   int

	isConstructed bool
}

// NewLine creates a fulfillment line with a positive quantity.
func NewLine(fulfillmentOrderID, fulfillmentOrderLineItemID, orderLineItemID kernel.ID, quantity int) (*Line, error) {
	l := &Line{isConstructed: true}

	if err := errors.Join(
		fulfillmentOrderID.Validate(),
		fulfillmentOrderLineItemID.Validate(),
		orderLineItemID.Validate(),
	); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("fulfillment line quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	l.fulfillmentOrderID = fulfillmentOrderID
	l.fulfillmentOrderLineItemID = fulfillmentOrderLineItemID
	l.orderLineItemID = orderLineItemID
	l.quantity = quantity
	return l, nil
}

// RestoreLine reconstructs a fulfillment line from persistence.
func RestoreLine(id, fulfillmentOrderID, fulfillmentOrderLineItemID, orderLineItemID kernel.ID, quantity int) (*Line, error) {
	l, err := NewLine(fulfillmentOrderID, fulfillmentOrderLineItemID, orderLineItemID, quantity)
	if err != nil {
		return nil, err
	}
	if err = id.Validate(); err != nil {
		return nil, err
	}

	l.id = id
	return l, nil
}

// Validate ensures the Line was created through a constructor.
func (l *Line) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLineIsNotConstructed
	}
	return nil
}

// ID returns the line identifier; zero until assigned.
func (l *Line) ID() kernel.ID { return l.id }

// FulfillmentOrderID returns the fulfillment order the quantity was drained
// from.
func (l *Line) FulfillmentOrderID() kernel.ID { return l.fulfillmentOrderID }

// FulfillmentOrderLineItemID returns the drained fulfillment order line.
func (l *Line) FulfillmentOrderLineItemID() kernel.ID { return l.fulfillmentOrderLineItemID }

// OrderLineItemID returns the order line that shipped.
func (l *Line) OrderLineItemID() kernel.ID { return l.orderLineItemID }

// Quantity returns how many units shipped.
func (l *Line) Quantity() int { return l.quantity }

func (l *Line) assignID(id kernel.ID) error {
	if !l.id.IsZero() {
		return errs.NewValueIsInvalidError("fulfillment line id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

// Fulfillment is the aggregate root recording one shipment event. It is
// created only through the fulfillment recording use case, which checks every
// quantity against the fulfillment order's remaining quantities first.
type Fulfillment struct {
	id      kernel.ID
	storeID kernel.StoreID
	orderID kernel.ID

	status   Status
	tracking TrackingInfo
	lines    []*Line

	isConstructed bool
}

// NewFulfillment creates a successful fulfillment for the given lines.
// Shipments enter the system after the fact, so they start in Success;
// RestoreFulfillment carries other statuses.
func NewFulfillment(storeID kernel.StoreID, orderID kernel.ID, tracking TrackingInfo, lines []*Line) (*Fulfillment, error) {
	f := &Fulfillment{
		status:        StatusSuccess,
		isConstructed: true,
	}

	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errs.NewValueIsRequiredError("fulfillment lines")
	}
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}

	f.storeID = storeID
	f.orderID = orderID
	f.tracking = tracking
	f.lines = lines
	return f, nil
}

// RestoreFulfillment reconstructs a fulfillment from persistence.
func RestoreFulfillment(id kernel.ID, storeID kernel.StoreID, orderID kernel.ID, status Status, tracking TrackingInfo, lines []*Line) (*Fulfillment, error) {
	f, err := NewFulfillment(storeID, orderID, tracking, lines)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	f.id = id
	f.status = status
	return f, nil
}

// Validate ensures the Fulfillment was created through a constructor.
func (f *Fulfillment) Validate() error {
	if f == nil || !f.isConstructed {
		return ErrFulfillmentIsNotConstructed
	}
	return nil
}

// AssignIdentifiers assigns the allocated identifiers to the fulfillment and
// its lines, consuming the batch first-in-first-out.
func (f *Fulfillment) AssignIdentifiers(id kernel.ID, lineIDs []kernel.ID) error {
	if !f.id.IsZero() {
		return errs.NewValueIsInvalidError("fulfillment id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	if len(lineIDs) != len(f.lines) {
		return errs.NewValueIsInvalidErrorWithCause("identifier batch sizes",
			fmt.Errorf("got %d line ids, need %d", len(lineIDs), len(f.lines)))
	}

	f.id = id
	for i, l := range f.lines {
		if err := l.assignID(lineIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Cancel withdraws a pending shipment.
func (f *Fulfillment) Cancel() error {
	if err := f.Validate(); err != nil {
		return err
	}

	newStatus, err := f.status.Cancel()
	if err != nil {
		return err
	}
	f.status = newStatus
	return nil
}

// IsEqual compares two fulfillments by identifier.
func (f *Fulfillment) IsEqual(other *Fulfillment) bool {
	return other != nil && f.id.IsEqual(other.id)
}

// ID returns the fulfillment identifier; zero until assigned.
func (f *Fulfillment) ID() kernel.ID { return f.id }

// StoreID returns the owning tenant.
func (f *Fulfillment) StoreID() kernel.StoreID { return f.storeID }

// OrderID returns the fulfilled order.
func (f *Fulfillment) OrderID() kernel.ID { return f.orderID }

// Status returns the lifecycle status.
func (f *Fulfillment) Status() Status { return f.status }

// Tracking returns the carrier handoff details.
func (f *Fulfillment) Tracking() TrackingInfo { return f.tracking }

// Lines returns the shipped lines in order.
func (f *Fulfillment) Lines() []*Line {
	out := make([]*Line, len(f.lines))
	copy(out, f.lines)
	return out
}

// TotalQuantity sums the shipped quantity across all lines.
func (f *Fulfillment) TotalQuantity() int {
	total := 0
	for _, l := range f.lines {
		total += l.quantity
	}
	return total
}
