package fulfillment

import (
	"fmt"

	"ordercore/internal/pkg/errs"
)

// Status represents the lifecycle state of a fulfillment.
// It implements a state machine with defined transitions:
//
//	Pending ──┬──> Success
//	          └──> Cancelled
//
// Success and Cancelled are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending is the initial status while the shipment is being
	// prepared.
	StatusPending

	// StatusSuccess indicates the shipment left the location.
	StatusSuccess

	// StatusCancelled indicates the shipment was withdrawn.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusSuccess:   "success",
		StatusCancelled: "cancelled",
	}
}

// Validate checks if the Status value is one of the valid statuses.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment status",
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

// Succeed transitions the status to Success.
// Only pending fulfillments can succeed.
func (s Status) Succeed() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewValueIsInvalidErrorWithCause("fulfillment status",
			fmt.Errorf("%s is not a valid status to succeed", s))
	}
	return StatusSuccess, nil
}

// Cancel transitions the status to Cancelled.
// Only pending fulfillments can be cancelled.
func (s Status) Cancel() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewValueIsInvalidErrorWithCause("fulfillment status",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCancelled, nil
}
