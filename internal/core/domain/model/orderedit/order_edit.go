package orderedit

import (
	"errors"
	"fmt"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrOrderEditIsNotConstructed is returned when an OrderEdit was not created
// through NewOrderEdit or RestoreOrderEdit.
var ErrOrderEditIsNotConstructed = errors.New("OrderEdit must be created via NewOrderEdit or RestoreOrderEdit")

// OrderEdit is the aggregate root for a staged editing session against one
// order. Changes accumulate in staging order and touch nothing until the
// session is committed; resolution against the order happens in the edit
// committer domain service, all-or-nothing.
type OrderEdit struct {
	id      kernel.ID
	storeID kernel.StoreID
	orderID kernel.ID

	status  Status
	changes []*Change

	isConstructed bool
}

// NewOrderEdit opens an editing session against the given order.
func NewOrderEdit(storeID kernel.StoreID, orderID kernel.ID) (*OrderEdit, error) {
	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	return &OrderEdit{
		storeID:       storeID,
		orderID:       orderID,
		status:        StatusOpen,
		isConstructed: true,
	}, nil
}

// RestoreOrderEdit reconstructs an editing session from persistence.
func RestoreOrderEdit(id kernel.ID, storeID kernel.StoreID, orderID kernel.ID, status Status, changes []*Change) (*OrderEdit, error) {
	e, err := NewOrderEdit(storeID, orderID)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	for _, c := range changes {
		if err = c.Validate(); err != nil {
			return nil, err
		}
	}

	e.id = id
	e.status = status
	e.changes = changes
	return e, nil
}

// Validate ensures the OrderEdit was created through a constructor.
func (e *OrderEdit) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrOrderEditIsNotConstructed
	}
	return nil
}

// AssignIdentifiers assigns the allocated identifiers to the edit session and
// any unidentified staged changes, consuming the batch first-in-first-out.
func (e *OrderEdit) AssignIdentifiers(id kernel.ID, changeIDs []kernel.ID) error {
	if !e.id.IsZero() {
		return errs.NewValueIsInvalidError("order edit id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}

	e.id = id
	return e.AssignPendingChangeIdentifiers(changeIDs)
}

// AssignPendingChangeIdentifiers assigns identifiers to changes staged since
// the last save. The count must match exactly.
func (e *OrderEdit) AssignPendingChangeIdentifiers(changeIDs []kernel.ID) error {
	if len(changeIDs) != e.PendingChangeIdentifierCount() {
		return errs.NewValueIsInvalidErrorWithCause("identifier batch sizes",
			fmt.Errorf("got %d change ids, need %d", len(changeIDs), e.PendingChangeIdentifierCount()))
	}

	next := 0
	for _, c := range e.changes {
		if c.id.IsZero() {
			if err := c.assignID(changeIDs[next]); err != nil {
				return err
			}
			next++
		}
	}
	return nil
}

// PendingChangeIdentifierCount reports how many staged changes still need an
// identifier.
func (e *OrderEdit) PendingChangeIdentifierCount() int {
	count := 0
	for _, c := range e.changes {
		if c.id.IsZero() {
			count++
		}
	}
	return count
}

// StageChange appends a validated change to an open session. An add_variant
// change without allowDuplicate merges into an identical staged line instead
// of creating a second one.
func (e *OrderEdit) StageChange(change *Change) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := change.Validate(); err != nil {
		return err
	}
	if !e.status.IsOpen() {
		return errs.NewDomainRuleViolationError("edit-is-open",
			fmt.Sprintf("cannot stage changes on %s edit %s", e.status, e.id))
	}

	for _, staged := range e.changes {
		if staged.mergeableWith(change) {
			staged.increaseQuantity(change.quantity)
			return nil
		}
	}

	e.changes = append(e.changes, change)
	return nil
}

// Commit marks the session committed. The caller resolves the staged changes
// against the order through the edit committer first; the status flips only
// after resolution succeeds.
func (e *OrderEdit) Commit() error {
	if err := e.Validate(); err != nil {
		return err
	}
	if len(e.changes) == 0 {
		return errs.NewDomainRuleViolationError("commit-edit",
			fmt.Sprintf("edit %s has no staged changes", e.id))
	}

	newStatus, err := e.status.Commit()
	if err != nil {
		return err
	}
	e.status = newStatus
	return nil
}

// Discard abandons the session without touching the order.
func (e *OrderEdit) Discard() error {
	if err := e.Validate(); err != nil {
		return err
	}

	newStatus, err := e.status.Discard()
	if err != nil {
		return err
	}
	e.status = newStatus
	return nil
}

// IsEqual compares two edit sessions by identifier.
func (e *OrderEdit) IsEqual(other *OrderEdit) bool {
	return other != nil && e.id.IsEqual(other.id)
}

// ID returns the edit session identifier; zero until assigned.
func (e *OrderEdit) ID() kernel.ID { return e.id }

// StoreID returns the owning tenant.
func (e *OrderEdit) StoreID() kernel.StoreID { return e.storeID }

// OrderID returns the order under edit.
func (e *OrderEdit) OrderID() kernel.ID { return e.orderID }

// Status returns the session status.
func (e *OrderEdit) Status() Status { return e.status }

// Changes returns the staged changes in staging order.
func (e *OrderEdit) Changes() []*Change {
	out := make([]*Change, len(e.changes))
	copy(out, e.changes)
	return out
}
