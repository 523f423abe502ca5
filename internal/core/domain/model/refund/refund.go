package refund

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrRefundIsNotConstructed is returned when a Refund was not created
// through NewRefund or RestoreRefund.
var ErrRefundIsNotConstructed = errors.New("Refund must be created via NewRefund or RestoreRefund")

// ErrLineItemIsNotConstructed is returned when a LineItem was not created
// through NewLineItem or RestoreLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem or RestoreLineItem")

// RestockType describes what happens to returned units.
type RestockType int

const (
	RestockTypeUnknown RestockType = iota

	// RestockTypeNoRestock refunds without touching inventory.
	RestockTypeNoRestock

	// RestockTypeCancel restocks units that never shipped.
	RestockTypeCancel

	// RestockTypeReturn restocks units the buyer sent back.
	RestockTypeReturn
)

func getRestockTypeStrings() map[RestockType]string {
	return map[RestockType]string{
		RestockTypeUnknown:   "unknown",
		RestockTypeNoRestock: "no_restock",
		RestockTypeCancel:    "cancel",
		RestockTypeReturn:    "return",
	}
}

// Validate checks if the RestockType is valid.
func (r RestockType) Validate() error {
	if r == RestockTypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("restock type",
			fmt.Errorf("%d is not a valid restock type", r))
	}
	if _, ok := getRestockTypeStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("restock type",
			fmt.Errorf("%d is not a valid restock type", r))
	}
	return nil
}

// String returns the lowercase name of the restock type.
func (r RestockType) String() string {
	if str, ok := getRestockTypeStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// LineItem is a nested entity recording the refunded quantity and amount for
// one order line. The amount is the discounted share computed by the refund
// calculator, not the raw line price.
type LineItem struct {
	id kernel.ID

	orderLineItemID kernel.ID
	quantity        int
	restockType     RestockType

	// locationID is required for restocking types and nil otherwise.
	locationID *kernel.ID

	amount kernel.Money

	isConstructed bool
}

// NewLineItem creates a refund line. Restocking types require a location to
// return the units to.
func NewLineItem(orderLineItemID kernel.ID, quantity int, restockType RestockType, locationID *kernel.ID, amount kernel.Money) (*LineItem, error) {
	li := &LineItem{isConstructed: true}

	if err := errors.Join(
		orderLineItemID.Validate(),
		restockType.Validate(),
		amount.Validate(),
	); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("refund line quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if amount.IsNegative() {
		return nil, errs.NewValueIsInvalidError("refund line amount")
	}
	if restockType != RestockTypeNoRestock {
		if locationID == nil {
			return nil, errs.NewValueIsRequiredError("restock location")
		}
		if err := locationID.Validate(); err != nil {
			return nil, err
		}
	}

	li.orderLineItemID = orderLineItemID
	li.quantity = quantity
	li.restockType = restockType
	li.locationID = locationID
	li.amount = amount
	return li, nil
}

// RestoreLineItem reconstructs a refund line from persistence.
func RestoreLineItem(id, orderLineItemID kernel.ID, quantity int, restockType RestockType, locationID *kernel.ID, amount kernel.Money) (*LineItem, error) {
	li, err := NewLineItem(orderLineItemID, quantity, restockType, locationID, amount)
	if err != nil {
		return nil, err
	}
	if err = id.Validate(); err != nil {
		return nil, err
	}

	li.id = id
	return li, nil
}

// Validate ensures the LineItem was created through a constructor.
func (li *LineItem) Validate() error {
	if li == nil || !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ID returns the refund line identifier; zero until assigned.
func (li *LineItem) ID() kernel.ID { return li.id }

// OrderLineItemID returns the refunded order line.
func (li *LineItem) OrderLineItemID() kernel.ID { return li.orderLineItemID }

// Quantity returns the refunded quantity.
func (li *LineItem) Quantity() int { return li.quantity }

// RestockType returns what happens to the refunded units.
func (li *LineItem) RestockType() RestockType { return li.restockType }

// LocationID returns the restocking location, or nil for no_restock.
func (li *LineItem) LocationID() *kernel.ID { return li.locationID }

// Amount returns the refunded amount for this line.
func (li *LineItem) Amount() kernel.Money { return li.amount }

func (li *LineItem) assignID(id kernel.ID) error {
	if !li.id.IsZero() {
		return errs.NewValueIsInvalidError("refund line id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

// Refund is the aggregate root recording one refund against an order. It is
// built only by the refund calculator domain service, which caps amounts by
// the order's net captured money; the aggregate itself stores the outcome.
// The refund transactions live in the order's ledger and are referenced by
// id.
type Refund struct {
	id      kernel.ID
	storeID kernel.StoreID
	orderID kernel.ID

	note           string
	lineItems      []*LineItem
	shippingRefund kernel.Money
	transactionIDs []kernel.ID

	isConstructed bool
}

// NewRefund creates a refund for the computed lines and shipping portion.
// A refund must return something: lines or a positive shipping amount.
func NewRefund(storeID kernel.StoreID, orderID kernel.ID, note string, lineItems []*LineItem, shippingRefund kernel.Money) (*Refund, error) {
	r := &Refund{isConstructed: true}

	if err := errors.Join(
		storeID.Validate(),
		orderID.Validate(),
		shippingRefund.Validate(),
	); err != nil {
		return nil, err
	}
	if shippingRefund.IsNegative() {
		return nil, errs.NewValueIsInvalidError("shipping refund")
	}
	if len(lineItems) == 0 && shippingRefund.IsZero() {
		return nil, errs.NewDomainRuleViolationError("create-refund",
			"a refund must return line quantities or shipping")
	}
	for _, li := range lineItems {
		if err := li.Validate(); err != nil {
			return nil, err
		}
	}

	r.storeID = storeID
	r.orderID = orderID
	r.note = note
	r.lineItems = lineItems
	r.shippingRefund = shippingRefund
	return r, nil
}

// RestoreRefund reconstructs a refund from persistence.
func RestoreRefund(id kernel.ID, storeID kernel.StoreID, orderID kernel.ID, note string, lineItems []*LineItem, shippingRefund kernel.Money, transactionIDs []kernel.ID) (*Refund, error) {
	r, err := NewRefund(storeID, orderID, note, lineItems, shippingRefund)
	if err != nil {
		return nil, err
	}
	if err = id.Validate(); err != nil {
		return nil, err
	}

	r.id = id
	r.transactionIDs = transactionIDs
	return r, nil
}

// Validate ensures the Refund was created through a constructor.
func (r *Refund) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRefundIsNotConstructed
	}
	return nil
}

// AssignIdentifiers assigns the allocated identifiers to the refund and its
// lines, consuming the batch first-in-first-out.
func (r *Refund) AssignIdentifiers(id kernel.ID, lineItemIDs []kernel.ID) error {
	if !r.id.IsZero() {
		return errs.NewValueIsInvalidError("refund id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	if len(lineItemIDs) != len(r.lineItems) {
		return errs.NewValueIsInvalidErrorWithCause("identifier batch sizes",
			fmt.Errorf("got %d line ids, need %d", len(lineItemIDs), len(r.lineItems)))
	}

	r.id = id
	for i, li := range r.lineItems {
		if err := li.assignID(lineItemIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// AttachTransactions records the ledger transaction ids backing this refund,
// once the order has assigned them identifiers.
func (r *Refund) AttachTransactions(transactionIDs []kernel.ID) error {
	if len(r.transactionIDs) != 0 {
		return errs.NewValueIsInvalidError("refund transactions already attached")
	}
	for _, id := range transactionIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	r.transactionIDs = transactionIDs
	return nil
}

// IsEqual compares two refunds by identifier.
func (r *Refund) IsEqual(other *Refund) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the refund identifier; zero until assigned.
func (r *Refund) ID() kernel.ID { return r.id }

// StoreID returns the owning tenant.
func (r *Refund) StoreID() kernel.StoreID { return r.storeID }

// OrderID returns the refunded order.
func (r *Refund) OrderID() kernel.ID { return r.orderID }

// Note returns the free-form reason captured with the refund.
func (r *Refund) Note() string { return r.note }

// LineItems returns the refunded lines in order.
func (r *Refund) LineItems() []*LineItem {
	out := make([]*LineItem, len(r.lineItems))
	copy(out, r.lineItems)
	return out
}

// ShippingRefund returns the refunded shipping portion.
func (r *Refund) ShippingRefund() kernel.Money { return r.shippingRefund }

// TransactionIDs returns the ledger transactions backing the refund.
func (r *Refund) TransactionIDs() []kernel.ID {
	out := make([]kernel.ID, len(r.transactionIDs))
	copy(out, r.transactionIDs)
	return out
}

// TotalAmount sums the line amounts and the shipping refund.
func (r *Refund) TotalAmount() kernel.Money {
	total := r.shippingRefund
	for _, li := range r.lineItems {
		total, _ = total.Add(li.amount)
	}
	return total
}
