package kernel

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ordercore/internal/pkg/errs"
)

// ErrMoneyIsNotConstructed indicates that a Money was not created through
// one of the Money constructors.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"Money must be created via NewMoney, MoneyFromString, or ZeroMoney")

// Money is an immutable fixed-point monetary amount in a specific currency.
// Amounts are backed by decimal arithmetic; binary floating point is never
// used for money. Arithmetic across currencies fails rather than coercing.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a Money from a decimal amount and a currency.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if err := currency.Validate(); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// MoneyFromString parses a decimal string like "100.00" into a Money.
func MoneyFromString(amount string, currency Currency) (Money, error) {
	if err := currency.Validate(); err != nil {
		return Money{}, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money amount", err)
	}

	return Money{amount: d, currency: currency}, nil
}

// ZeroMoney creates a zero amount in the given currency.
func ZeroMoney(currency Currency) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency of the amount.
func (m Money) Currency() Currency {
	return m.currency
}

// String renders the amount followed by the currency code, e.g. "12.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(m.currency.MinorUnits()), m.currency.Code())
}

// IsZero reports whether the amount equals zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsEqual compares two amounts; amounts in different currencies are never equal.
func (m Money) IsEqual(other Money) bool {
	return m.currency.IsEqual(other.currency) && m.amount.Equal(other.amount)
}

// LessThan reports whether m is strictly smaller than other.
// Comparing across currencies returns an error.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// Add returns m + other. Adding across currencies returns an error.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m − other. Subtracting across currencies returns an error.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MulInt returns the amount multiplied by a whole quantity.
func (m Money) MulInt(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), currency: m.currency}
}

// MulDecimal returns the amount multiplied by an arbitrary decimal factor,
// e.g. a tax rate or a discount fraction. The result is unrounded; callers
// round once via Round when the full line amount is known.
func (m Money) MulDecimal(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// DivDecimal returns the amount divided by an arbitrary decimal divisor,
// used for tax-included back-calculation (price / (1 + rate)).
func (m Money) DivDecimal(divisor decimal.Decimal) Money {
	return Money{amount: m.amount.Div(divisor), currency: m.currency}
}

// Round rounds the amount to the currency's minor units using half-up
// rounding. Rounding is applied once per line total, never per unit, so
// per-unit rounding error cannot compound across quantities.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(m.currency.MinorUnits()), currency: m.currency}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Validate returns ErrMoneyIsNotConstructed for the zero value.
func (m Money) Validate() error {
	if m.currency.code == "" {
		return ErrMoneyIsNotConstructed
	}
	return nil
}

func (m Money) ensureSameCurrency(other Money) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := other.Validate(); err != nil {
		return err
	}
	if !m.currency.IsEqual(other.currency) {
		return errs.NewValueIsInvalidErrorWithCause("money currency",
			fmt.Errorf("cannot combine %s with %s", m.currency.Code(), other.currency.Code()))
	}
	return nil
}
