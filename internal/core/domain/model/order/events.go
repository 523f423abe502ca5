package order

import (
	"ordercore/internal/core/domain/model/kernel"
)

// Event names emitted by the order aggregate.
const (
	EventOrderCreated             = "order.created"
	EventOrderLineItemsAdded      = "order.line_items_added"
	EventOrderLineItemRemoved     = "order.line_item_removed"
	EventOrderFulfillmentRecorded = "order.fulfillment_recorded"
	EventOrderRefundApplied       = "order.refund_applied"
	EventOrderEditApplied         = "order.edit_applied"
	EventOrderCancelled           = "order.cancelled"
	EventOrderClosed              = "order.closed"
)

// CreatedEvent is recorded when an order is created on checkout completion.
type CreatedEvent struct {
	kernel.BaseEvent
	Name     string
	Currency string
}

// LineItemsAddedEvent is recorded when new line items join an open order.
// New lines receive identifiers only at persistence time, so the event
// carries the count rather than the line ids.
type LineItemsAddedEvent struct {
	kernel.BaseEvent
	Count int
}

// LineItemRemovedEvent is recorded when a line item is removed from an
// open order.
type LineItemRemovedEvent struct {
	kernel.BaseEvent
	LineItemID kernel.ID
}

// FulfillmentRecordedEvent is recorded when fulfilled quantities are applied
// to the order's line items.
type FulfillmentRecordedEvent struct {
	kernel.BaseEvent
	FulfillmentOrderID kernel.ID
	FulfillmentStatus  string
}

// RefundAppliedEvent is recorded when a refund decreases refundable
// quantities and adds refund transactions to the ledger.
type RefundAppliedEvent struct {
	kernel.BaseEvent
	RefundID kernel.ID
	Amount   string
}

// EditAppliedEvent is recorded when a committed order edit is merged into
// the order in one step.
type EditAppliedEvent struct {
	kernel.BaseEvent
	OrderEditID kernel.ID
}

// CancelledEvent is recorded when an open order is cancelled.
type CancelledEvent struct {
	kernel.BaseEvent
	Reason string
}

// ClosedEvent is recorded when an order is archived.
type ClosedEvent struct {
	kernel.BaseEvent
}
