package order

import (
	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// TaxLine is a value object describing one applied tax on a line item or
// shipping line: the human-readable title, the rate as a decimal fraction,
// and the resulting tax amount for the full line quantity.
type TaxLine struct {
	title string
	rate  decimal.Decimal
	price kernel.Money
}

// NewTaxLine creates a TaxLine. The title must be non-blank, the rate
// non-negative, and the price a constructed Money.
func NewTaxLine(title string, rate decimal.Decimal, price kernel.Money) (TaxLine, error) {
	if title == "" {
		return TaxLine{}, errs.NewValueIsRequiredError("tax line title")
	}
	if rate.IsNegative() {
		return TaxLine{}, errs.NewValueIsInvalidError("tax line rate")
	}
	if err := price.Validate(); err != nil {
		return TaxLine{}, err
	}

	return TaxLine{title: title, rate: rate, price: price}, nil
}

// Title returns the tax title, e.g. "VAT".
func (t TaxLine) Title() string {
	return t.title
}

// Rate returns the tax rate as a decimal fraction, e.g. 0.0700.
func (t TaxLine) Rate() decimal.Decimal {
	return t.rate
}

// Price returns the tax amount for the full line quantity.
func (t TaxLine) Price() kernel.Money {
	return t.price
}

// IsEqual compares two tax lines field by field.
// Equality is explicit rather than reflective on purpose.
func (t TaxLine) IsEqual(other TaxLine) bool {
	return t.title == other.title &&
		t.rate.Equal(other.rate) &&
		t.price.IsEqual(other.price)
}
