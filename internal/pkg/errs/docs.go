// Package errs provides standardized error types for the order-management core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - DomainRuleViolationError: For when a named business invariant would be broken
//   - ConflictError: For optimistic-concurrency conflicts at save time (retryable)
//   - ExternalCollaboratorError: For failures of external collaborators
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Rule checks always precede mutation: a DomainRuleViolationError means the
// operation was abandoned with zero side effects. IsRetryable classifies
// errors for callers that want to retry conflicting or transient failures.
package errs
