package order

import (
	"fmt"

	"ordercore/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions:
//
//	Open ──┬──> Closed
//	       └──> Cancelled
//
// Closed and Cancelled are terminal. Fulfillment progress is tracked
// orthogonally by FulfillmentStatus.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOpen is the initial status when an order is created on
	// checkout completion. All mutations require an open order.
	StatusOpen

	// StatusClosed indicates the order has been archived after completion.
	StatusClosed

	// StatusCancelled indicates the order was cancelled before completion.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusOpen:      "open",
		StatusClosed:    "closed",
		StatusCancelled: "cancelled",
	}
}

// Validate checks if the Status value is one of the valid statuses.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsOpen reports whether the order may still be mutated.
func (s Status) IsOpen() bool {
	return s == StatusOpen
}

// Close transitions the status to Closed.
// Only open orders can be closed; Closed and Cancelled are terminal.
func (s Status) Close() (Status, error) {
	if s != StatusOpen {
		return 0, errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%s is not a valid status to close", s))
	}
	return StatusClosed, nil
}

// Cancel transitions the status to Cancelled.
// Only open orders can be cancelled.
func (s Status) Cancel() (Status, error) {
	if s != StatusOpen {
		return 0, errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCancelled, nil
}

// FinancialStatus tracks the payment side of the order lifecycle.
// It is derived from the transaction ledger, never set directly by input.
type FinancialStatus int

const (
	FinancialStatusUnknown FinancialStatus = iota
	FinancialStatusPending
	FinancialStatusAuthorized
	FinancialStatusPartiallyPaid
	FinancialStatusPaid
	FinancialStatusPartiallyRefunded
	FinancialStatusRefunded
	FinancialStatusVoided
)

func getFinancialStatusStrings() map[FinancialStatus]string {
	return map[FinancialStatus]string{
		FinancialStatusUnknown:           "unknown",
		FinancialStatusPending:           "pending",
		FinancialStatusAuthorized:        "authorized",
		FinancialStatusPartiallyPaid:     "partially_paid",
		FinancialStatusPaid:              "paid",
		FinancialStatusPartiallyRefunded: "partially_refunded",
		FinancialStatusRefunded:          "refunded",
		FinancialStatusVoided:            "voided",
	}
}

// Validate checks if the FinancialStatus value is valid.
func (s FinancialStatus) Validate() error {
	if s == FinancialStatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("financial status",
			fmt.Errorf("%d is not a valid financial status", s))
	}
	if _, ok := getFinancialStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("financial status",
			fmt.Errorf("%d is not a valid financial status", s))
	}
	return nil
}

// String returns the lowercase name of the financial status.
func (s FinancialStatus) String() string {
	if str, ok := getFinancialStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// FulfillmentStatus tracks how much of the order has shipped.
// It is derived from line-item quantities, never trusted from input.
type FulfillmentStatus int

const (
	FulfillmentStatusUnknown FulfillmentStatus = iota
	FulfillmentStatusUnfulfilled
	FulfillmentStatusPartiallyFulfilled
	FulfillmentStatusFulfilled
)

func getFulfillmentStatusStrings() map[FulfillmentStatus]string {
	return map[FulfillmentStatus]string{
		FulfillmentStatusUnknown:            "unknown",
		FulfillmentStatusUnfulfilled:        "unfulfilled",
		FulfillmentStatusPartiallyFulfilled: "partially_fulfilled",
		FulfillmentStatusFulfilled:          "fulfilled",
	}
}

// Validate checks if the FulfillmentStatus value is valid.
func (s FulfillmentStatus) Validate() error {
	if s == FulfillmentStatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment status",
			fmt.Errorf("%d is not a valid fulfillment status", s))
	}
	if _, ok := getFulfillmentStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment status",
			fmt.Errorf("%d is not a valid fulfillment status", s))
	}
	return nil
}

// String returns the lowercase name of the fulfillment status.
func (s FulfillmentStatus) String() string {
	if str, ok := getFulfillmentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
