package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/rules"
	"ordercore/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// FulfillmentQuantity requests recording a fulfilled quantity against one
// order line item.
type FulfillmentQuantity struct {
	LineItemID kernel.ID
	Quantity   int
}

// RefundQuantity requests recording a refunded quantity against one order
// line item.
type RefundQuantity struct {
	LineItemID kernel.ID
	Quantity   int
}

// Order is the aggregate root for a placed customer order. It exclusively
// owns its line items, shipping lines, discount applications, and monetary
// transactions; every other aggregate references the order by id only.
//
// Invariants:
//   - fulfilled + refunded quantity per line never exceeds ordered quantity
//   - totals are always recomputed from the owned lines, never trusted
//   - rule checks precede mutation; a violation leaves the order untouched
//   - financial and fulfillment status are derived, not set from input
//
// The order buffers domain events in memory during mutations; the unit of
// work drains them for asynchronous dispatch only after a durable commit.
type Order struct {
	id      kernel.ID
	storeID kernel.StoreID
	name    string

	currency      kernel.Currency
	taxesIncluded bool

	status            Status
	financialStatus   FinancialStatus
	fulfillmentStatus FulfillmentStatus

	lineItems            []*LineItem
	shippingLines        []*ShippingLine
	discountApplications []DiscountApplication
	transactions         []*Transaction

	customerID        *kernel.ID
	billingAddressID  *kernel.ID
	shippingAddressID *kernel.ID

	subtotal       kernel.Money
	totalDiscounts kernel.Money
	totalShipping  kernel.Money
	totalTax       kernel.Money
	total          kernel.Money

	version       int64
	isNew         bool
	pendingEvents []kernel.DomainEvent
	isConstructed bool
}

// NewOrder creates a new open order on checkout completion. Line items must
// be non-empty and priced in the order currency. Identifiers are assigned
// separately via AssignIdentifiers right before first persistence.
func NewOrder(
	storeID kernel.StoreID,
	name string,
	currency kernel.Currency,
	taxesIncluded bool,
	lineItems []*LineItem,
	shippingLines []*ShippingLine,
) (*Order, error) {
	o := &Order{
		status:            StatusOpen,
		financialStatus:   FinancialStatusPending,
		fulfillmentStatus: FulfillmentStatusUnfulfilled,
		taxesIncluded:     taxesIncluded,
		isNew:             true,
		isConstructed:     true,
	}

	if err := errors.Join(
		storeID.Validate(),
		o.setName(name),
		o.setCurrency(currency),
	); err != nil {
		return nil, err
	}
	o.storeID = storeID

	if len(lineItems) == 0 {
		return nil, errs.NewValueIsRequiredError("order line items")
	}
	for _, li := range lineItems {
		if err := o.checkNewLineItem(li); err != nil {
			return nil, err
		}
	}
	for _, sl := range shippingLines {
		if err := o.checkNewShippingLine(sl); err != nil {
			return nil, err
		}
	}

	o.lineItems = lineItems
	o.shippingLines = shippingLines
	o.recomputeTotals()
	return o, nil
}

// RestoreOrder reconstructs an order aggregate from persistence, including
// owned entities, derived statuses, and the optimistic version.
func RestoreOrder(
	id kernel.ID,
	storeID kernel.StoreID,
	name string,
	currency kernel.Currency,
	taxesIncluded bool,
	status Status,
	lineItems []*LineItem,
	shippingLines []*ShippingLine,
	discountApplications []DiscountApplication,
	transactions []*Transaction,
	customerID, billingAddressID, shippingAddressID *kernel.ID,
	version int64,
) (*Order, error) {
	o := &Order{
		taxesIncluded: taxesIncluded,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		storeID.Validate(),
		status.Validate(),
		o.setName(name),
		o.setCurrency(currency),
	); err != nil {
		return nil, err
	}
	if len(lineItems) == 0 {
		return nil, errs.NewValueIsRequiredError("order line items")
	}
	if version < 0 {
		return nil, errs.NewVersionIsInvalidError("order version",
			fmt.Errorf("%d is negative", version))
	}

	o.id = id
	o.storeID = storeID
	o.status = status
	o.lineItems = lineItems
	o.shippingLines = shippingLines
	o.discountApplications = discountApplications
	o.transactions = transactions
	o.customerID = customerID
	o.billingAddressID = billingAddressID
	o.shippingAddressID = shippingAddressID
	o.version = version

	o.recomputeTotals()
	o.deriveFulfillmentStatus()
	o.deriveFinancialStatus()
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// AssignIdentifiers assigns the identifiers allocated by the id generation
// service to the order and every unidentified nested entity, consuming each
// per-kind batch first-in-first-out. Counts must match exactly; a mismatch
// aborts creation before anything is assigned. On success the order records
// its creation event.
func (o *Order) AssignIdentifiers(orderID kernel.ID, lineItemIDs, shippingLineIDs, transactionIDs []kernel.ID) error {
	if !o.id.IsZero() {
		return errs.NewValueIsInvalidError("order id already assigned")
	}
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := o.checkPendingIdentifierCounts(len(lineItemIDs), len(shippingLineIDs), len(transactionIDs)); err != nil {
		return err
	}

	o.id = orderID
	if err := o.assignPendingEntityIdentifiers(lineItemIDs, shippingLineIDs, transactionIDs); err != nil {
		return err
	}

	o.recordEvent(&CreatedEvent{
		BaseEvent: kernel.NewBaseEvent(EventOrderCreated, o.storeID, o.id),
		Name:      o.name,
		Currency:  o.currency.Code(),
	})
	return nil
}

// AssignPendingEntityIdentifiers assigns identifiers to entities added after
// the order was first persisted (edit commits, refund transactions). Counts
// must match the number of unidentified entities per kind exactly.
func (o *Order) AssignPendingEntityIdentifiers(lineItemIDs, shippingLineIDs, transactionIDs []kernel.ID) error {
	if err := o.id.Validate(); err != nil {
		return err
	}
	if err := o.checkPendingIdentifierCounts(len(lineItemIDs), len(shippingLineIDs), len(transactionIDs)); err != nil {
		return err
	}
	return o.assignPendingEntityIdentifiers(lineItemIDs, shippingLineIDs, transactionIDs)
}

// PendingIdentifierCounts reports how many identifiers per entity kind the
// order still needs before it can be persisted.
func (o *Order) PendingIdentifierCounts() (lineItems, shippingLines, transactions int) {
	for _, li := range o.lineItems {
		if li.id.IsZero() {
			lineItems++
		}
	}
	for _, sl := range o.shippingLines {
		if sl.id.IsZero() {
			shippingLines++
		}
	}
	for _, tx := range o.transactions {
		if tx.id.IsZero() {
			transactions++
		}
	}
	return lineItems, shippingLines, transactions
}

// AddLineItems appends line items to an open order and recomputes totals.
// Affected lines must be priced in the order currency.
func (o *Order) AddLineItems(items ...*LineItem) error {
	if err := o.ensureOpen("add line items"); err != nil {
		return err
	}
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items to add")
	}
	for _, li := range items {
		if err := o.checkNewLineItem(li); err != nil {
			return err
		}
	}

	o.lineItems = append(o.lineItems, items...)
	o.recomputeTotals()
	o.deriveFulfillmentStatus()

	o.recordEvent(&LineItemsAddedEvent{
		BaseEvent: kernel.NewBaseEvent(EventOrderLineItemsAdded, o.storeID, o.id),
		Count:     len(items),
	})
	return nil
}

// RemoveLineItem removes a line item from an open order. Lines with any
// fulfilled quantity cannot be removed.
func (o *Order) RemoveLineItem(lineItemID kernel.ID) error {
	if err := o.ensureOpen("remove line item"); err != nil {
		return err
	}

	idx := -1
	for i, li := range o.lineItems {
		if li.id.IsEqual(lineItemID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.NewObjectNotFoundError("lineItemId", lineItemID.String())
	}

	li := o.lineItems[idx]
	if err := rules.CheckAll(rules.New("remove-line-item",
		func() bool { return li.fulfilledQuantity == 0 },
		func() string {
			return fmt.Sprintf("line %s has %d fulfilled units", li.id, li.fulfilledQuantity)
		})); err != nil {
		return err
	}
	if len(o.lineItems) == 1 {
		return errs.NewDomainRuleViolationError("remove-line-item",
			"an order must keep at least one line item")
	}

	o.lineItems = append(o.lineItems[:idx], o.lineItems[idx+1:]...)
	o.recomputeTotals()
	o.deriveFulfillmentStatus()

	o.recordEvent(&LineItemRemovedEvent{
		BaseEvent:  kernel.NewBaseEvent(EventOrderLineItemRemoved, o.storeID, o.id),
		LineItemID: lineItemID,
	})
	return nil
}

// RecordFulfillment applies fulfilled quantities reported for one
// fulfillment order. The whole batch is validated against the fulfill rule
// before any line is mutated; a violation anywhere leaves every line
// unchanged.
func (o *Order) RecordFulfillment(fulfillmentOrderID kernel.ID, lines []FulfillmentQuantity) error {
	if err := o.ensureOpen("record fulfillment"); err != nil {
		return err
	}
	if err := fulfillmentOrderID.Validate(); err != nil {
		return err
	}
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("fulfillment quantities")
	}

	batchRules := make([]rules.Rule, 0, len(lines))
	targets := make([]*LineItem, 0, len(lines))
	for _, fq := range lines {
		li, err := o.lineItem(fq.LineItemID)
		if err != nil {
			return err
		}
		batchRules = append(batchRules, li.fulfillRule(fq.Quantity))
		targets = append(targets, li)
	}
	if err := rules.CheckAll(batchRules...); err != nil {
		return err
	}

	for i, fq := range lines {
		targets[i].recordFulfillment(fq.Quantity)
	}
	o.deriveFulfillmentStatus()

	o.recordEvent(&FulfillmentRecordedEvent{
		BaseEvent:          kernel.NewBaseEvent(EventOrderFulfillmentRecorded, o.storeID, o.id),
		FulfillmentOrderID: fulfillmentOrderID,
		FulfillmentStatus:  o.fulfillmentStatus.String(),
	})
	return nil
}

// ApplyRefund applies a computed refund: it decreases refundable quantities
// per line and appends the refund transactions to the ledger. Every quantity
// is checked against the refund rule, and the refunded amount is checked
// against the net amount owed across the transaction history, before any
// mutation happens.
func (o *Order) ApplyRefund(refundID kernel.ID, lines []RefundQuantity, transactions []*Transaction) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := refundID.Validate(); err != nil {
		return err
	}

	batchRules := make([]rules.Rule, 0, len(lines))
	targets := make([]*LineItem, 0, len(lines))
	for _, rq := range lines {
		li, err := o.lineItem(rq.LineItemID)
		if err != nil {
			return err
		}
		batchRules = append(batchRules, li.refundRule(rq.Quantity))
		targets = append(targets, li)
	}

	refundTotal, err := kernel.ZeroMoney(o.currency)
	if err != nil {
		return err
	}
	for _, tx := range transactions {
		if err = tx.Validate(); err != nil {
			return err
		}
		if !tx.amount.Currency().IsEqual(o.currency) {
			return errs.NewValueIsInvalidError("refund transaction currency")
		}
		if tx.kind != TransactionKindRefund {
			return errs.NewValueIsInvalidError("refund transaction kind")
		}
		refundTotal, err = refundTotal.Add(tx.amount)
		if err != nil {
			return err
		}
	}

	owed := o.NetCapturedAmount()
	batchRules = append(batchRules, rules.New("refund-transaction",
		func() bool {
			exceeds, cmpErr := owed.LessThan(refundTotal)
			return cmpErr == nil && !exceeds
		},
		func() string {
			return fmt.Sprintf("refund %s exceeds net captured %s", refundTotal, owed)
		}))

	if err = rules.CheckAll(batchRules...); err != nil {
		return err
	}

	for i, rq := range lines {
		targets[i].recordRefund(rq.Quantity)
	}
	o.transactions = append(o.transactions, transactions...)
	o.recomputeTotals()
	o.deriveFulfillmentStatus()
	o.deriveFinancialStatus()

	o.recordEvent(&RefundAppliedEvent{
		BaseEvent: kernel.NewBaseEvent(EventOrderRefundApplied, o.storeID, o.id),
		RefundID:  refundID,
		Amount:    refundTotal.String(),
	})
	return nil
}

// SetLineItemQuantity changes the ordered quantity of a line during an edit
// commit. Quantity zero removes the line; decreases cannot undercut already
// fulfilled or refunded units.
func (o *Order) SetLineItemQuantity(lineItemID kernel.ID, quantity int) error {
	if err := o.ensureOpen("set line item quantity"); err != nil {
		return err
	}

	if quantity == 0 {
		return o.RemoveLineItem(lineItemID)
	}

	li, err := o.lineItem(lineItemID)
	if err != nil {
		return err
	}
	if err = li.changeQuantity(quantity); err != nil {
		return err
	}

	o.recomputeTotals()
	o.deriveFulfillmentStatus()
	return nil
}

// SetLineItemDiscount applies a discount application to one line, replacing
// any allocations the line had. Fixed amounts are capped at the line
// subtotal; percentages allocate subtotal × value / 100, rounded once.
func (o *Order) SetLineItemDiscount(lineItemID kernel.ID, application DiscountApplication) error {
	if err := o.ensureOpen("set line item discount"); err != nil {
		return err
	}

	li, err := o.lineItem(lineItemID)
	if err != nil {
		return err
	}

	subtotal := li.SubtotalPrice()
	var amount kernel.Money
	switch application.kind {
	case DiscountKindFixed:
		amount, err = kernel.NewMoney(application.value, o.currency)
		if err != nil {
			return err
		}
		capped, cmpErr := subtotal.LessThan(amount)
		if cmpErr != nil {
			return cmpErr
		}
		if capped {
			amount = subtotal
		}
	case DiscountKindPercentage:
		amount = subtotal.MulDecimal(application.value.Div(decimal.NewFromInt(100))).Round()
	default:
		return errs.NewValueIsInvalidError("discount kind")
	}

	allocation, err := NewDiscountAllocation(application.id, amount)
	if err != nil {
		return err
	}

	o.discountApplications = append(o.discountApplications, application)
	li.setDiscountAllocations([]DiscountAllocation{allocation})
	o.recomputeTotals()
	return nil
}

// SetLineItemTaxLines replaces a line's tax lines; used by the tax
// calculation engine after (re)computing applicable rates.
func (o *Order) SetLineItemTaxLines(lineItemID kernel.ID, taxLines []TaxLine) error {
	li, err := o.lineItem(lineItemID)
	if err != nil {
		return err
	}
	li.setTaxLines(taxLines)
	o.recomputeTotals()
	return nil
}

// SetShippingLineTaxLines replaces a shipping line's tax lines.
func (o *Order) SetShippingLineTaxLines(shippingLineID kernel.ID, taxLines []TaxLine) error {
	for _, sl := range o.shippingLines {
		if sl.id.IsEqual(shippingLineID) {
			sl.setTaxLines(taxLines)
			o.recomputeTotals()
			return nil
		}
	}
	return errs.NewObjectNotFoundError("shippingLineId", shippingLineID.String())
}

// RecordEditApplied marks that a committed order edit has been merged into
// the order and records the corresponding event.
func (o *Order) RecordEditApplied(orderEditID kernel.ID) error {
	if err := o.ensureOpen("apply edit"); err != nil {
		return err
	}
	if err := orderEditID.Validate(); err != nil {
		return err
	}

	o.recordEvent(&EditAppliedEvent{
		BaseEvent:   kernel.NewBaseEvent(EventOrderEditApplied, o.storeID, o.id),
		OrderEditID: orderEditID,
	})
	return nil
}

// AddTransaction appends a ledger entry and re-derives the financial status.
func (o *Order) AddTransaction(tx *Transaction) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	if !tx.amount.Currency().IsEqual(o.currency) {
		return errs.NewValueIsInvalidError("transaction currency")
	}

	o.transactions = append(o.transactions, tx)
	o.deriveFinancialStatus()
	return nil
}

// Cancel cancels an open order. Orders with any fulfilled quantity cannot
// be cancelled; refund them instead.
func (o *Order) Cancel(reason string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	if err = rules.CheckAll(rules.New("cancel-order",
		func() bool { return o.totalFulfilledQuantity() == 0 },
		func() string {
			return fmt.Sprintf("order %s has %d fulfilled units", o.id, o.totalFulfilledQuantity())
		})); err != nil {
		return err
	}

	o.status = newStatus
	if o.NetCapturedAmount().IsZero() {
		o.financialStatus = FinancialStatusVoided
	}

	o.recordEvent(&CancelledEvent{
		BaseEvent: kernel.NewBaseEvent(EventOrderCancelled, o.storeID, o.id),
		Reason:    reason,
	})
	return nil
}

// Close archives an open order.
func (o *Order) Close() error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Close()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.recordEvent(&ClosedEvent{
		BaseEvent: kernel.NewBaseEvent(EventOrderClosed, o.storeID, o.id),
	})
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier; zero until assigned.
func (o *Order) ID() kernel.ID { return o.id }

// StoreID returns the owning tenant.
func (o *Order) StoreID() kernel.StoreID { return o.storeID }

// Name returns the display name, e.g. "#1001".
func (o *Order) Name() string { return o.name }

// Currency returns the order currency.
func (o *Order) Currency() kernel.Currency { return o.currency }

// TaxesIncluded reports whether line prices already contain tax.
func (o *Order) TaxesIncluded() bool { return o.taxesIncluded }

// Status returns the order lifecycle status.
func (o *Order) Status() Status { return o.status }

// FinancialStatus returns the derived payment status.
func (o *Order) FinancialStatus() FinancialStatus { return o.financialStatus }

// FulfillmentStatus returns the derived fulfillment status.
func (o *Order) FulfillmentStatus() FulfillmentStatus { return o.fulfillmentStatus }

// LineItems returns the owned line items in order.
func (o *Order) LineItems() []*LineItem {
	out := make([]*LineItem, len(o.lineItems))
	copy(out, o.lineItems)
	return out
}

// ShippingLines returns the owned shipping lines.
func (o *Order) ShippingLines() []*ShippingLine {
	out := make([]*ShippingLine, len(o.shippingLines))
	copy(out, o.shippingLines)
	return out
}

// DiscountApplications returns the order-level discount applications.
func (o *Order) DiscountApplications() []DiscountApplication {
	out := make([]DiscountApplication, len(o.discountApplications))
	copy(out, o.discountApplications)
	return out
}

// Transactions returns the monetary ledger entries.
func (o *Order) Transactions() []*Transaction {
	out := make([]*Transaction, len(o.transactions))
	copy(out, o.transactions)
	return out
}

// CustomerID returns the customer reference, or nil.
func (o *Order) CustomerID() *kernel.ID { return o.customerID }

// BillingAddressID returns the billing address reference, or nil.
func (o *Order) BillingAddressID() *kernel.ID { return o.billingAddressID }

// ShippingAddressID returns the shipping address reference, or nil.
func (o *Order) ShippingAddressID() *kernel.ID { return o.shippingAddressID }

// SetCustomer attaches the customer and address references.
func (o *Order) SetCustomer(customerID, billingAddressID, shippingAddressID *kernel.ID) error {
	for _, id := range []*kernel.ID{customerID, billingAddressID, shippingAddressID} {
		if id != nil {
			if err := id.Validate(); err != nil {
				return err
			}
		}
	}
	o.customerID = customerID
	o.billingAddressID = billingAddressID
	o.shippingAddressID = shippingAddressID
	return nil
}

// Subtotal returns the recomputed sum of line prices before discounts.
func (o *Order) Subtotal() kernel.Money { return o.subtotal }

// TotalDiscounts returns the recomputed sum of discount allocations.
func (o *Order) TotalDiscounts() kernel.Money { return o.totalDiscounts }

// TotalShipping returns the recomputed sum of shipping prices.
func (o *Order) TotalShipping() kernel.Money { return o.totalShipping }

// TotalTax returns the recomputed sum of line and shipping tax.
func (o *Order) TotalTax() kernel.Money { return o.totalTax }

// Total returns the recomputed grand total.
func (o *Order) Total() kernel.Money { return o.total }

// Version returns the optimistic-concurrency version loaded from persistence.
func (o *Order) Version() int64 { return o.version }

// IsNew reports whether the order has not been persisted yet.
func (o *Order) IsNew() bool { return o.isNew }

// MarkPersisted flags the order as stored and advances the optimistic
// version to the one the insert wrote; called by the repository after a
// successful insert.
func (o *Order) MarkPersisted() {
	o.isNew = false
	o.version++
}

// PendingEvents returns the events buffered since the last drain.
func (o *Order) PendingEvents() []kernel.DomainEvent {
	out := make([]kernel.DomainEvent, len(o.pendingEvents))
	copy(out, o.pendingEvents)
	return out
}

// ClearPendingEvents empties the event buffer. The unit of work calls this
// after draining events post-commit; failed operations discard the buffer
// by dropping the aggregate.
func (o *Order) ClearPendingEvents() {
	o.pendingEvents = nil
}

// NetCapturedAmount returns captured sales minus successful refunds across
// the transaction ledger.
func (o *Order) NetCapturedAmount() kernel.Money {
	net, _ := kernel.ZeroMoney(o.currency)
	for _, tx := range o.transactions {
		switch {
		case tx.IsSuccessfulSale():
			net, _ = net.Add(tx.amount)
		case tx.IsSuccessfulRefund():
			net, _ = net.Sub(tx.amount)
		}
	}
	return net
}

// lineItem finds an owned line item by id.
func (o *Order) lineItem(id kernel.ID) (*LineItem, error) {
	for _, li := range o.lineItems {
		if li.id.IsEqual(id) {
			return li, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("lineItemId", id.String())
}

func (o *Order) ensureOpen(operation string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.status.IsOpen() {
		return errs.NewDomainRuleViolationError("order-is-open",
			fmt.Sprintf("cannot %s on %s order %s", operation, o.status, o.id))
	}
	return nil
}

func (o *Order) checkNewLineItem(li *LineItem) error {
	if err := li.Validate(); err != nil {
		return err
	}
	if !li.price.Currency().IsEqual(o.currency) {
		return errs.NewValueIsInvalidErrorWithCause("line item currency",
			fmt.Errorf("%s does not match order currency %s",
				li.price.Currency().Code(), o.currency.Code()))
	}
	return nil
}

func (o *Order) checkNewShippingLine(sl *ShippingLine) error {
	if err := sl.Validate(); err != nil {
		return err
	}
	if !sl.price.Currency().IsEqual(o.currency) {
		return errs.NewValueIsInvalidError("shipping line currency")
	}
	return nil
}

func (o *Order) checkPendingIdentifierCounts(lineItems, shippingLines, transactions int) error {
	wantLineItems, wantShippingLines, wantTransactions := o.PendingIdentifierCounts()
	if lineItems != wantLineItems || shippingLines != wantShippingLines || transactions != wantTransactions {
		return errs.NewValueIsInvalidErrorWithCause("identifier batch sizes",
			fmt.Errorf("got %d/%d/%d ids, need %d/%d/%d (line items/shipping lines/transactions)",
				lineItems, shippingLines, transactions,
				wantLineItems, wantShippingLines, wantTransactions))
	}
	return nil
}

// assignPendingEntityIdentifiers consumes the per-kind batches FIFO against
// entities that have no identifier yet. Counts were checked by the caller.
func (o *Order) assignPendingEntityIdentifiers(lineItemIDs, shippingLineIDs, transactionIDs []kernel.ID) error {
	next := 0
	for _, li := range o.lineItems {
		if li.id.IsZero() {
			if err := li.assignID(lineItemIDs[next]); err != nil {
				return err
			}
			next++
		}
	}

	next = 0
	for _, sl := range o.shippingLines {
		if sl.id.IsZero() {
			if err := sl.assignID(shippingLineIDs[next]); err != nil {
				return err
			}
			next++
		}
	}

	next = 0
	for _, tx := range o.transactions {
		if tx.id.IsZero() {
			if err := tx.assignID(transactionIDs[next]); err != nil {
				return err
			}
			next++
		}
	}
	return nil
}

func (o *Order) totalFulfilledQuantity() int {
	total := 0
	for _, li := range o.lineItems {
		total += li.fulfilledQuantity
	}
	return total
}

// recomputeTotals rebuilds every monetary total from the owned lines.
// Totals are never accepted from input.
func (o *Order) recomputeTotals() {
	subtotal, _ := kernel.ZeroMoney(o.currency)
	discounts, _ := kernel.ZeroMoney(o.currency)
	shipping, _ := kernel.ZeroMoney(o.currency)
	tax, _ := kernel.ZeroMoney(o.currency)

	for _, li := range o.lineItems {
		subtotal, _ = subtotal.Add(li.SubtotalPrice())
		discounts, _ = discounts.Add(li.TotalDiscount())
		tax, _ = tax.Add(li.TotalTax())
	}
	for _, sl := range o.shippingLines {
		shipping, _ = shipping.Add(sl.price)
		tax, _ = tax.Add(sl.TotalTax())
	}

	total, _ := subtotal.Sub(discounts)
	total, _ = total.Add(shipping)
	if !o.taxesIncluded {
		total, _ = total.Add(tax)
	}

	o.subtotal = subtotal
	o.totalDiscounts = discounts
	o.totalShipping = shipping
	o.totalTax = tax
	o.total = total.Round()
}

// deriveFulfillmentStatus recomputes the fulfillment status from line
// quantities.
func (o *Order) deriveFulfillmentStatus() {
	fulfilled := 0
	remaining := 0
	for _, li := range o.lineItems {
		fulfilled += li.fulfilledQuantity
		remaining += li.FulfillableQuantity()
	}

	switch {
	case fulfilled == 0:
		o.fulfillmentStatus = FulfillmentStatusUnfulfilled
	case remaining == 0:
		o.fulfillmentStatus = FulfillmentStatusFulfilled
	default:
		o.fulfillmentStatus = FulfillmentStatusPartiallyFulfilled
	}
}

// deriveFinancialStatus recomputes the financial status from the ledger.
func (o *Order) deriveFinancialStatus() {
	captured, _ := kernel.ZeroMoney(o.currency)
	refunded, _ := kernel.ZeroMoney(o.currency)
	for _, tx := range o.transactions {
		switch {
		case tx.IsSuccessfulSale():
			captured, _ = captured.Add(tx.amount)
		case tx.IsSuccessfulRefund():
			refunded, _ = refunded.Add(tx.amount)
		}
	}

	if o.status == StatusCancelled && captured.IsZero() {
		o.financialStatus = FinancialStatusVoided
		return
	}

	switch {
	case captured.IsZero():
		o.financialStatus = FinancialStatusPending
	case !refunded.IsZero():
		if under, _ := refunded.LessThan(captured); under {
			o.financialStatus = FinancialStatusPartiallyRefunded
		} else {
			o.financialStatus = FinancialStatusRefunded
		}
	default:
		if under, _ := captured.LessThan(o.total); under {
			o.financialStatus = FinancialStatusPartiallyPaid
		} else {
			o.financialStatus = FinancialStatusPaid
		}
	}
}

func (o *Order) recordEvent(event kernel.DomainEvent) {
	o.pendingEvents = append(o.pendingEvents, event)
}

func (o *Order) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("order name")
	}
	o.name = name
	return nil
}

func (o *Order) setCurrency(currency kernel.Currency) error {
	if err := currency.Validate(); err != nil {
		return err
	}
	o.currency = currency
	return nil
}
