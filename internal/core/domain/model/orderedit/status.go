package orderedit

import (
	"fmt"

	"ordercore/internal/pkg/errs"
)

// Status represents the lifecycle state of an order edit session.
// It implements a state machine with defined transitions:
//
//	Open ──┬──> Committed
//	       └──> Discarded
//
// Committed and Discarded are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOpen is the initial status; changes can be staged.
	StatusOpen

	// StatusCommitted indicates all staged changes were applied to the
	// order in one step.
	StatusCommitted

	// StatusDiscarded indicates the session was abandoned without
	// touching the order.
	StatusDiscarded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusOpen:      "open",
		StatusCommitted: "committed",
		StatusDiscarded: "discarded",
	}
}

// Validate checks if the Status value is one of the valid statuses.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("order edit status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order edit status",
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

// IsOpen reports whether changes can still be staged.
func (s Status) IsOpen() bool {
	return s == StatusOpen
}

// Commit transitions the status to Committed.
// Only open edits can be committed.
func (s Status) Commit() (Status, error) {
	if s != StatusOpen {
		return 0, errs.NewValueIsInvalidErrorWithCause("order edit status",
			fmt.Errorf("%s is not a valid status to commit", s))
	}
	return StatusCommitted, nil
}

// Discard transitions the status to Discarded.
// Only open edits can be discarded.
func (s Status) Discard() (Status, error) {
	if s != StatusOpen {
		return 0, errs.NewValueIsInvalidErrorWithCause("order edit status",
			fmt.Errorf("%s is not a valid status to discard", s))
	}
	return StatusDiscarded, nil
}
