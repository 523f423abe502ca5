package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/refund"
	"ordercore/internal/pkg/errs"
)

// RefundRequestLine asks to refund a quantity of one order line.
type RefundRequestLine struct {
	OrderLineItemID kernel.ID
	Quantity        int
	RestockType     refund.RestockType
	LocationID      *kernel.ID
}

// RefundRequest describes a refund computation run.
type RefundRequest struct {
	Note  string
	Lines []RefundRequestLine

	// Cancel short-circuits the line list and refunds every remaining
	// refundable quantity on the order.
	Cancel bool

	// RestockLocationID restocks cancelled units there; nil cancels
	// without restocking.
	RestockLocationID *kernel.ID

	// RefundShipping returns the shipping charge. ShippingAmount limits
	// the portion; nil refunds it in full. Either way the amount is
	// capped at what the order charged.
	RefundShipping bool
	ShippingAmount *kernel.Money

	Gateway string
}

// RefundComputation is the calculator's outcome: the refund aggregate, the
// per-line quantities to apply to the order, and the ledger transactions to
// execute, all still without identifiers.
type RefundComputation struct {
	Refund       *refund.Refund
	OrderLines   []order.RefundQuantity
	Transactions []*order.Transaction
}

// RefundCalculator is a domain service deriving what a refund returns.
//
// Per requested line, refundable = ordered − previously refunded; exceeding
// it fails naming the line, before anything else happens. The refunded
// amount per line is unit price × quantity minus the proportional share of
// discounts already applied to the line, rounded half-up once. Shipping
// refunds are capped at what the order charged. Generated transactions
// reverse the order's successful sales in ledger order and never exceed the
// net captured amount.
type RefundCalculator struct{}

// NewRefundCalculator creates a new RefundCalculator instance.
func NewRefundCalculator() RefundCalculator {
	return RefundCalculator{}
}

// Compute derives the refund for the request without mutating the order.
// The caller applies the outcome via the order's ApplyRefund and persists
// both aggregates in one unit of work.
func (c RefundCalculator) Compute(o *order.Order, request RefundRequest) (*RefundComputation, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	requestLines := request.Lines
	if request.Cancel {
		requestLines = c.cancelLines(o, request.RestockLocationID)
	}

	zero, err := kernel.ZeroMoney(o.Currency())
	if err != nil {
		return nil, err
	}

	refundLines := make([]*refund.LineItem, 0, len(requestLines))
	orderLines := make([]order.RefundQuantity, 0, len(requestLines))
	total := zero
	for _, rl := range requestLines {
		li, err := c.findLine(o, rl.OrderLineItemID)
		if err != nil {
			return nil, err
		}
		if rl.Quantity <= 0 || rl.Quantity > li.RefundableQuantity() {
			return nil, errs.NewDomainRuleViolationError("refund-line-item",
				fmt.Sprintf("requested %d exceeds refundable %d on line %s",
					rl.Quantity, li.RefundableQuantity(), li.ID()))
		}

		amount := c.lineAmount(li, rl.Quantity)
		refundLine, err := refund.NewLineItem(rl.OrderLineItemID, rl.Quantity, rl.RestockType, rl.LocationID, amount)
		if err != nil {
			return nil, err
		}

		refundLines = append(refundLines, refundLine)
		orderLines = append(orderLines, order.RefundQuantity{LineItemID: rl.OrderLineItemID, Quantity: rl.Quantity})
		if total, err = total.Add(amount); err != nil {
			return nil, err
		}
	}

	shippingRefund := zero
	if request.RefundShipping {
		shippingRefund, err = c.shippingAmount(o, request.ShippingAmount)
		if err != nil {
			return nil, err
		}
		if total, err = total.Add(shippingRefund); err != nil {
			return nil, err
		}
	}

	transactions, err := c.transactions(o, total, request.Gateway)
	if err != nil {
		return nil, err
	}

	r, err := refund.NewRefund(o.StoreID(), o.ID(), request.Note, refundLines, shippingRefund)
	if err != nil {
		return nil, err
	}

	return &RefundComputation{
		Refund:       r,
		OrderLines:   orderLines,
		Transactions: transactions,
	}, nil
}

// cancelLines builds a request covering every remaining refundable unit.
func (c RefundCalculator) cancelLines(o *order.Order, restockLocationID *kernel.ID) []RefundRequestLine {
	restockType := refund.RestockTypeNoRestock
	if restockLocationID != nil {
		restockType = refund.RestockTypeCancel
	}

	var lines []RefundRequestLine
	for _, li := range o.LineItems() {
		if li.RefundableQuantity() == 0 {
			continue
		}
		lines = append(lines, RefundRequestLine{
			OrderLineItemID: li.ID(),
			Quantity:        li.RefundableQuantity(),
			RestockType:     restockType,
			LocationID:      restockLocationID,
		})
	}
	return lines
}

// lineAmount returns unit price × quantity minus the proportional discount
// share, rounded half-up once and floored at zero.
func (c RefundCalculator) lineAmount(li *order.LineItem, quantity int) kernel.Money {
	gross := li.Price().MulInt(quantity)

	discount := li.TotalDiscount()
	if discount.IsZero() {
		return gross.Round()
	}

	share := discount.MulDecimal(
		decimal.NewFromInt(int64(quantity)).Div(decimal.NewFromInt(int64(li.Quantity()))))
	amount, _ := gross.Sub(share)
	amount = amount.Round()
	if amount.IsNegative() {
		amount, _ = kernel.ZeroMoney(li.Price().Currency())
	}
	return amount
}

// shippingAmount caps the requested shipping refund at what the order
// charged; nil refunds the full charge.
func (c RefundCalculator) shippingAmount(o *order.Order, requested *kernel.Money) (kernel.Money, error) {
	charged := o.TotalShipping()
	if requested == nil {
		return charged, nil
	}
	if requested.IsNegative() {
		return kernel.Money{}, errs.NewValueIsInvalidError("shipping refund amount")
	}

	over, err := charged.LessThan(*requested)
	if err != nil {
		return kernel.Money{}, err
	}
	if over {
		return charged, nil
	}
	return *requested, nil
}

// transactions reverses successful sales in ledger order until the total is
// covered, linking each refund to its originating payment. Refunding more
// than the net captured amount is a domain rule violation.
func (c RefundCalculator) transactions(o *order.Order, total kernel.Money, gateway string) ([]*order.Transaction, error) {
	if total.IsZero() {
		return nil, nil
	}

	owed := o.NetCapturedAmount()
	if exceeds, err := owed.LessThan(total); err != nil {
		return nil, err
	} else if exceeds {
		return nil, errs.NewDomainRuleViolationError("refund-transaction",
			fmt.Sprintf("refund %s exceeds net captured %s", total, owed))
	}

	refundedByParent := make(map[int64]kernel.Money)
	for _, tx := range o.Transactions() {
		if tx.IsSuccessfulRefund() && tx.ParentTransactionID() != nil {
			parent := tx.ParentTransactionID().Int64()
			if prior, ok := refundedByParent[parent]; ok {
				refundedByParent[parent], _ = prior.Add(tx.Amount())
			} else {
				refundedByParent[parent] = tx.Amount()
			}
		}
	}

	remaining := total
	var out []*order.Transaction
	for _, tx := range o.Transactions() {
		if remaining.IsZero() {
			break
		}
		if !tx.IsSuccessfulSale() {
			continue
		}

		refundable := tx.Amount()
		if prior, ok := refundedByParent[tx.ID().Int64()]; ok {
			refundable, _ = refundable.Sub(prior)
		}
		if refundable.IsZero() || refundable.IsNegative() {
			continue
		}

		portion := refundable
		if under, err := remaining.LessThan(refundable); err != nil {
			return nil, err
		} else if under {
			portion = remaining
		}

		parentID := tx.ID()
		refundTx, err := order.NewTransaction(order.TransactionKindRefund,
			order.TransactionStatusSuccess, portion, c.gatewayFor(gateway, tx), &parentID)
		if err != nil {
			return nil, err
		}
		out = append(out, refundTx)
		remaining, _ = remaining.Sub(portion)
	}

	if !remaining.IsZero() {
		return nil, errs.NewDomainRuleViolationError("refund-transaction",
			fmt.Sprintf("could not cover %s against captured payments", remaining))
	}
	return out, nil
}

// gatewayFor prefers the originating sale's gateway so the refund routes
// back the way the money came in.
func (c RefundCalculator) gatewayFor(requested string, sale *order.Transaction) string {
	if sale.Gateway() != "" {
		return sale.Gateway()
	}
	return requested
}

func (c RefundCalculator) findLine(o *order.Order, lineItemID kernel.ID) (*order.LineItem, error) {
	for _, li := range o.LineItems() {
		if li.ID().IsEqual(lineItemID) {
			return li, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("lineItemId", lineItemID.String())
}
