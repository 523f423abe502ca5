package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order-domain error taxonomy.
var (
	ErrDomainRuleViolation  = errors.New("domain rule violation")
	ErrConflict             = errors.New("concurrent modification conflict")
	ErrExternalCollaborator = errors.New("external collaborator failure")
	ErrIdempotentReplay     = errors.New("request was already applied")
)

// DomainRuleViolationError indicates that a named business invariant would be
// broken by the requested operation. The operation is abandoned before any
// mutation, so the error carries the rule name and the offending values for
// diagnostics.
type DomainRuleViolationError struct {
	Rule    string
	Details string
	Cause   error
}

// NewDomainRuleViolationError creates a DomainRuleViolationError for the named
// rule with a human-readable description of the offending values.
func NewDomainRuleViolationError(rule, details string) *DomainRuleViolationError {
	return &DomainRuleViolationError{Rule: rule, Details: details}
}

// NewDomainRuleViolationErrorWithCause creates a DomainRuleViolationError
// wrapping an underlying cause.
func NewDomainRuleViolationErrorWithCause(rule, details string, cause error) *DomainRuleViolationError {
	return &DomainRuleViolationError{Rule: rule, Details: details, Cause: cause}
}

func (e *DomainRuleViolationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s: %s (cause: %s)", ErrDomainRuleViolation, e.Rule, e.Details, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrDomainRuleViolation, e.Rule, e.Details))
}

func (e *DomainRuleViolationError) Unwrap() error {
	return ErrDomainRuleViolation
}

// ConflictError indicates that a concurrent operation modified the same
// aggregate between load and save. The write was rejected; the caller may
// reload and retry.
type ConflictError struct {
	ParamName string
	ID        any
}

// NewConflictError creates a ConflictError for the aggregate identified by
// paramName and id.
func NewConflictError(paramName string, id any) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id}
}

func (e *ConflictError) Error() string {
	return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %v", ErrConflict, e.ParamName, e.ID))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ExternalCollaboratorError indicates a failure in an external collaborator
// (inventory lookup, id generation, customer lookup). It is fatal to the
// current operation; Transient marks failures that may succeed on retry.
type ExternalCollaboratorError struct {
	Collaborator string
	Transient    bool
	Cause        error
}

// NewExternalCollaboratorError creates a permanent collaborator failure.
func NewExternalCollaboratorError(collaborator string, cause error) *ExternalCollaboratorError {
	return &ExternalCollaboratorError{Collaborator: collaborator, Cause: cause}
}

// NewTransientExternalCollaboratorError creates a collaborator failure that is
// safe to retry (timeouts, connection resets).
func NewTransientExternalCollaboratorError(collaborator string, cause error) *ExternalCollaboratorError {
	return &ExternalCollaboratorError{Collaborator: collaborator, Transient: true, Cause: cause}
}

func (e *ExternalCollaboratorError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrExternalCollaborator, e.Collaborator, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrExternalCollaborator, e.Collaborator))
}

func (e *ExternalCollaboratorError) Unwrap() error {
	return ErrExternalCollaborator
}

// IsRetryable reports whether the operation that produced err may be retried.
// Only concurrency conflicts and transient collaborator failures qualify;
// validation errors, rule violations and not-found errors surface as-is.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}

	var collabErr *ExternalCollaboratorError
	if errors.As(err, &collabErr) {
		return collabErr.Transient
	}

	return false
}
