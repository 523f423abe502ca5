package guard_test

import (
	"errors"
	"testing"

	"ordercore/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		// When
		guard := guard.NewConstructorGuard()

		// Then
		assert.NotNil(t, guard)

		// Test with custom error
		customError := errors.New("test object not constructed")
		require.NoError(t, guard.Validate(customError))

		// Test with nil error (should use default)
		require.NoError(t, guard.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		guard := guard.NewConstructorGuard()
		customError := errors.New("not constructed")

		// When
		err := guard.Validate(customError)

		// Then
		require.NoError(t, err)
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var guard guard.ConstructorGuard // zero value
		expectedError := errors.New("entity not constructed")

		// When
		err := guard.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard // zero value

		// When
		err := g.Validate(nil)

		// Then
		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsageExample demonstrates how ConstructorGuard should be used
// in a domain object to enforce constructor usage.
func TestConstructorGuardUsageExample(t *testing.T) {
	// Define a sample domain object that uses ConstructorGuard
	type ShippingLine struct {
		title string
		price int
		guard guard.ConstructorGuard
	}

	var errShippingLineNotConstructed = errors.New("ShippingLine must be created via NewShippingLine")

	newShippingLine := func(title string, price int) (ShippingLine, error) {
		if title == "" {
			return ShippingLine{}, errors.New("title is required")
		}
		if price < 0 {
			return ShippingLine{}, errors.New("price cannot be negative")
		}
		return ShippingLine{
			title: title,
			price: price,
			guard: guard.NewConstructorGuard(),
		}, nil
	}

	validateShippingLine := func(sl ShippingLine) error {
		return sl.guard.Validate(errShippingLineNotConstructed)
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		// When
		line, err := newShippingLine("Standard Shipping", 1000)

		// Then
		require.NoError(t, err)
		require.NoError(t, validateShippingLine(line))
		assert.Equal(t, "Standard Shipping", line.title)
		assert.Equal(t, 1000, line.price)
	})

	t.Run("zero_value_construction_validation", func(t *testing.T) {
		// Given
		var line ShippingLine // zero value

		// When
		err := validateShippingLine(line)

		// Then
		// Zero value ShippingLine has zero value guard which returns the error we pass
		require.Error(t, err)
		assert.Equal(t, errShippingLineNotConstructed, err)
	})

	t.Run("constructor_validates_business_rules", func(t *testing.T) {
		// Test empty title
		_, err := newShippingLine("", 1000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title is required")

		// Test negative price
		_, err = newShippingLine("Standard Shipping", -1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price cannot be negative")
	})
}

// TestConstructorGuardRealWorldExample shows a better pattern using embedded types.
func TestConstructorGuardRealWorldExample(t *testing.T) {
	// Define error once
	var errRefundNotConstructed = errors.New("Refund must be created via NewRefund")

	// Define a guard-aware base type
	type guardedRefund struct {
		guard guard.ConstructorGuard
	}

	newGuardedRefund := func() guardedRefund {
		return guardedRefund{
			guard: guard.NewConstructorGuard(),
		}
	}

	validateGuardedRefund := func(g guardedRefund) error {
		return g.guard.Validate(errRefundNotConstructed)
	}

	// Define the actual domain object
	type Refund struct {
		guardedRefund
		id     string
		note   string
		amount int
	}

	newRefund := func(id, note string, amount int) (Refund, error) {
		if id == "" {
			return Refund{}, errors.New("refund ID is required")
		}
		if amount <= 0 {
			return Refund{}, errors.New("refund amount must be positive")
		}
		return Refund{
			guardedRefund: newGuardedRefund(),
			id:            id,
			note:          note,
			amount:        amount,
		}, nil
	}

	t.Run("valid_refund_construction", func(t *testing.T) {
		// When
		r, err := newRefund("123", "damaged in transit", 999)

		// Then
		require.NoError(t, err)
		require.NoError(t, validateGuardedRefund(r.guardedRefund))
		assert.Equal(t, "123", r.id)
		assert.Equal(t, "damaged in transit", r.note)
		assert.Equal(t, 999, r.amount)
	})

	t.Run("zero_value_refund_fails_validation", func(t *testing.T) {
		// Given
		var r Refund // zero value

		// When
		err := validateGuardedRefund(r.guardedRefund)

		// Then
		// Zero value has zero value guard which returns the error we pass
		require.Error(t, err)
		assert.Equal(t, errRefundNotConstructed, err)
	})
}

// TestConstructorGuardWithMultipleErrors demonstrates using ConstructorGuard
// with different error types and messages.
func TestConstructorGuardWithMultipleErrors(t *testing.T) {
	testCases := []struct {
		name          string
		expectedError error
	}{
		{
			name:          "order_not_constructed_error",
			expectedError: errors.New("Order must be created via NewOrder"),
		},
		{
			name:          "fulfillment_not_constructed_error",
			expectedError: errors.New("Fulfillment must be created via NewFulfillment factory method"),
		},
		{
			name:          "tax_setting_not_constructed_error",
			expectedError: errors.New("TaxSetting requires proper initialization through constructor"),
		},
		{
			name:          "nil_error_uses_default",
			expectedError: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			guard := guard.NewConstructorGuard()

			// When
			err := guard.Validate(tc.expectedError)

			// Then
			require.NoError(t, err, "Properly constructed guard should not return error")
		})
	}
}

// TestConstructorGuardDefaultError verifies the default error behavior.
func TestConstructorGuardDefaultError(t *testing.T) {
	t.Run("nil_error_uses_default_for_zero_value", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard // zero value

		// When
		err := g.Validate(nil)

		// Then
		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})

	t.Run("default_error_constant_has_meaningful_message", func(t *testing.T) {
		// Then
		require.Error(t, guard.ErrDefaultConstructorGuard)
		assert.Contains(t, guard.ErrDefaultConstructorGuard.Error(), "constructor")
		assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
	})
}

// BenchmarkConstructorGuard measures the performance overhead of using ConstructorGuard.
func BenchmarkConstructorGuard(b *testing.B) {
	b.Run("NewConstructorGuard", func(b *testing.B) {
		b.ResetTimer()
		for range b.N {
			_ = guard.NewConstructorGuard()
		}
	})

	b.Run("Validate_Success", func(b *testing.B) {
		guard := guard.NewConstructorGuard()
		err := errors.New("not constructed")
		b.ResetTimer()
		for range b.N {
			_ = guard.Validate(err)
		}
	})

	b.Run("Validate_ZeroValue", func(b *testing.B) {
		var guard guard.ConstructorGuard
		err := errors.New("not constructed")
		b.ResetTimer()
		for range b.N {
			_ = guard.Validate(err)
		}
	})
}

// TestConstructorGuardConcurrency verifies that ConstructorGuard is safe for concurrent use.
func TestConstructorGuardConcurrency(t *testing.T) {
	guard := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	// Run multiple goroutines that validate the guard concurrently
	done := make(chan bool)
	for range 100 {
		go func() {
			for range 1000 {
				err := guard.Validate(validationError)
				assert.NoError(t, err)
			}
			done <- true
		}()
	}

	// Wait for all goroutines to complete
	for range 100 {
		<-done
	}
}

// TestConstructorGuardImmutability verifies that ConstructorGuard is immutable.
func TestConstructorGuardImmutability(t *testing.T) {
	t.Run("guard_fields_are_not_modifiable", func(t *testing.T) {
		// Given
		originalError := errors.New("original error")
		g := guard.NewConstructorGuard()

		// When
		// Try to create another guard
		anotherError := errors.New("another error")
		_ = guard.NewConstructorGuard()

		// Then
		// Original guard should still validate successfully
		require.NoError(t, g.Validate(originalError))
		require.NoError(t, g.Validate(anotherError))
	})

	t.Run("guard_can_be_safely_passed_by_value", func(t *testing.T) {
		// Given
		guard := guard.NewConstructorGuard()
		testError := errors.New("test error")

		// When
		guardCopy := guard // Pass by value

		// Then
		require.NoError(t, guard.Validate(testError))
		require.NoError(t, guardCopy.Validate(testError))
	})
}
