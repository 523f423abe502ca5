package fulfillmentorder

import (
	"fmt"

	"ordercore/internal/pkg/errs"
)

// Status represents the lifecycle state of a fulfillment order.
// It implements a state machine with defined transitions:
//
//	Open ──┬──> InProgress ──┬──> Closed
//	       │                 └──> Cancelled
//	       ├──> Closed
//	       └──> Cancelled
//
// Closed and Cancelled are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOpen is the initial status after routing assigns the work to
	// a location.
	StatusOpen

	// StatusInProgress indicates the assigned location accepted the work.
	StatusInProgress

	// StatusClosed indicates every line's remaining quantity is drained.
	StatusClosed

	// StatusCancelled indicates the work was withdrawn before completion.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusOpen:       "open",
		StatusInProgress: "in_progress",
		StatusClosed:     "closed",
		StatusCancelled:  "cancelled",
	}
}

// Validate checks if the Status value is one of the valid statuses.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment order status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment order status",
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

// IsActive reports whether the fulfillment order still accepts work.
func (s Status) IsActive() bool {
	return s == StatusOpen || s == StatusInProgress
}

// Accept transitions the status to InProgress.
// Only open fulfillment orders can be accepted.
func (s Status) Accept() (Status, error) {
	if s != StatusOpen {
		return 0, errs.NewValueIsInvalidErrorWithCause("fulfillment order status",
			fmt.Errorf("%s is not a valid status to accept", s))
	}
	return StatusInProgress, nil
}

// Close transitions the status to Closed.
func (s Status) Close() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewValueIsInvalidErrorWithCause("fulfillment order status",
			fmt.Errorf("%s is not a valid status to close", s))
	}
	return StatusClosed, nil
}

// Cancel transitions the status to Cancelled.
func (s Status) Cancel() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewValueIsInvalidErrorWithCause("fulfillment order status",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCancelled, nil
}

// ExpectedDeliveryMethod describes how the fulfilled goods reach the buyer.
type ExpectedDeliveryMethod int

const (
	ExpectedDeliveryMethodUnknown ExpectedDeliveryMethod = iota
	ExpectedDeliveryMethodShipping
	ExpectedDeliveryMethodPickup
)

func getExpectedDeliveryMethodStrings() map[ExpectedDeliveryMethod]string {
	return map[ExpectedDeliveryMethod]string{
		ExpectedDeliveryMethodUnknown:  "unknown",
		ExpectedDeliveryMethodShipping: "shipping",
		ExpectedDeliveryMethodPickup:   "pickup",
	}
}

// Validate checks if the ExpectedDeliveryMethod is valid.
func (m ExpectedDeliveryMethod) Validate() error {
	if m == ExpectedDeliveryMethodUnknown {
		return errs.NewValueIsInvalidErrorWithCause("expected delivery method",
			fmt.Errorf("%d is not a valid delivery method", m))
	}
	if _, ok := getExpectedDeliveryMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("expected delivery method",
			fmt.Errorf("%d is not a valid delivery method", m))
	}
	return nil
}

// String returns the lowercase name of the delivery method.
func (m ExpectedDeliveryMethod) String() string {
	if str, ok := getExpectedDeliveryMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}
