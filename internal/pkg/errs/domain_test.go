package errs_test

import (
	"errors"
	"testing"

	"ordercore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainRuleViolationError(t *testing.T) {
	t.Run("NewDomainRuleViolationError", func(t *testing.T) {
		err := errs.NewDomainRuleViolationError("fulfill-line-item", "requested 6 exceeds remaining 5 on line 10")

		assert.Equal(t, "fulfill-line-item", err.Rule)
		assert.Equal(t, "requested 6 exceeds remaining 5 on line 10", err.Details)
		require.NoError(t, err.Cause)
		assert.Equal(t,
			"domain rule violation: fulfill-line-item: requested 6 exceeds remaining 5 on line 10",
			err.Error())
		assert.Equal(t, errs.ErrDomainRuleViolation, err.Unwrap())
	})

	t.Run("NewDomainRuleViolationErrorWithCause", func(t *testing.T) {
		cause := errors.New("quantity check failed")
		err := errs.NewDomainRuleViolationErrorWithCause("refund-line-item", "over-refund", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"domain rule violation: refund-line-item: over-refund (cause: quantity check failed)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrDomainRuleViolation)
	})
}

func TestConflictError(t *testing.T) {
	err := errs.NewConflictError("orderId", 42)

	assert.Equal(t, "orderId", err.ParamName)
	assert.Equal(t, 42, err.ID)
	assert.Equal(t, "concurrent modification conflict: param is: orderId, ID is: 42", err.Error())
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestExternalCollaboratorError(t *testing.T) {
	t.Run("permanent failure", func(t *testing.T) {
		cause := errors.New("variant does not exist")
		err := errs.NewExternalCollaboratorError("product lookup", cause)

		assert.False(t, err.Transient)
		assert.Equal(t, "external collaborator failure: product lookup (cause: variant does not exist)", err.Error())
		require.ErrorIs(t, err, errs.ErrExternalCollaborator)
	})

	t.Run("transient failure", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewTransientExternalCollaboratorError("inventory lookup", cause)

		assert.True(t, err.Transient)
		require.ErrorIs(t, err, errs.ErrExternalCollaborator)
	})
}

func TestIsRetryable(t *testing.T) {
	t.Run("conflict errors are retryable", func(t *testing.T) {
		assert.True(t, errs.IsRetryable(errs.NewConflictError("orderId", 1)))
	})

	t.Run("transient collaborator errors are retryable", func(t *testing.T) {
		err := errs.NewTransientExternalCollaboratorError("id generation", errors.New("timeout"))
		assert.True(t, errs.IsRetryable(err))
	})

	t.Run("permanent collaborator errors are not retryable", func(t *testing.T) {
		err := errs.NewExternalCollaboratorError("customer lookup", errors.New("no such customer"))
		assert.False(t, errs.IsRetryable(err))
	})

	t.Run("rule violations are not retryable", func(t *testing.T) {
		assert.False(t, errs.IsRetryable(errs.NewDomainRuleViolationError("fulfill-line-item", "over-fulfillment")))
	})

	t.Run("wrapped conflict errors are retryable", func(t *testing.T) {
		wrapped := errors.Join(errors.New("save failed"), errs.NewConflictError("orderId", 7))
		assert.True(t, errs.IsRetryable(wrapped))
	})
}
