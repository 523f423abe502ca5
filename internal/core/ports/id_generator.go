package ports

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// IDKind names an entity kind for identifier allocation. Counters are kept
// per (store, kind) so identifiers are dense within a tenant.
type IDKind string

const (
	IDKindOrder                    IDKind = "order"
	IDKindLineItem                 IDKind = "line_item"
	IDKindShippingLine             IDKind = "shipping_line"
	IDKindTransaction              IDKind = "transaction"
	IDKindDiscountApplication      IDKind = "discount_application"
	IDKindFulfillmentOrder         IDKind = "fulfillment_order"
	IDKindFulfillmentOrderLineItem IDKind = "fulfillment_order_line_item"
	IDKindFulfillment              IDKind = "fulfillment"
	IDKindFulfillmentLine          IDKind = "fulfillment_line"
	IDKindOrderEdit                IDKind = "order_edit"
	IDKindEditChange               IDKind = "edit_change"
	IDKindRefund                   IDKind = "refund"
	IDKindRefundLineItem           IDKind = "refund_line_item"
	IDKindTaxSetting               IDKind = "tax_setting"
	IDKindTaxValue                 IDKind = "tax_value"
)

// IDBatch holds the identifiers allocated for one operation, one queue per
// kind, consumed first-in-first-out. A batch is sized exactly to the
// operation's needs; leftovers indicate a wiring bug.
type IDBatch struct {
	ids map[IDKind][]kernel.ID
}

// NewIDBatch wraps allocated identifiers into a batch.
func NewIDBatch(ids map[IDKind][]kernel.ID) *IDBatch {
	return &IDBatch{ids: ids}
}

// Next pops the next identifier of the given kind.
func (b *IDBatch) Next(kind IDKind) (kernel.ID, error) {
	queue := b.ids[kind]
	if len(queue) == 0 {
		return kernel.ID{}, errs.NewValueIsInvalidError(string(kind) + " id batch exhausted")
	}
	id := queue[0]
	b.ids[kind] = queue[1:]
	return id, nil
}

// Take pops n identifiers of the given kind in allocation order.
func (b *IDBatch) Take(kind IDKind, n int) ([]kernel.ID, error) {
	out := make([]kernel.ID, 0, n)
	for i := 0; i < n; i++ {
		id, err := b.Next(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Remaining reports how many identifiers of a kind are still unconsumed.
func (b *IDBatch) Remaining(kind IDKind) int {
	return len(b.ids[kind])
}

// IDGenerator allocates identifier batches from the shared per-store
// counters. Allocation failure aborts the whole operation; no aggregate is
// ever persisted with a locally invented identifier.
type IDGenerator interface {
	// Allocate reserves counts[kind] identifiers per kind for the store,
	// atomically per kind, and returns them as FIFO queues.
	Allocate(ctx context.Context, storeID kernel.StoreID, counts map[IDKind]int) (*IDBatch, error)
}
