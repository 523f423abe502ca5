package kernel

import (
	"fmt"

	"ordercore/internal/pkg/errs"
)

// ErrCurrencyIsNotConstructed indicates that a Currency was not created
// through NewCurrency or looked up from a CurrencyCatalogue.
var ErrCurrencyIsNotConstructed = errs.NewValueIsRequiredError(
	"Currency must be created via NewCurrency or a CurrencyCatalogue")

// Currency is a value object describing an ISO 4217 currency: its code and
// the number of minor units (fractional digits) used when rounding monetary
// amounts in that currency.
type Currency struct {
	code       string
	minorUnits int32
}

// NewCurrency creates a Currency from an ISO code and its minor-unit count.
// The code must be exactly three uppercase letters; minor units must lie
// in [0, 4].
func NewCurrency(code string, minorUnits int32) (Currency, error) {
	if len(code) != 3 {
		return Currency{}, errs.NewValueIsInvalidErrorWithCause("currency code",
			fmt.Errorf("%q is not a three-letter ISO code", code))
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return Currency{}, errs.NewValueIsInvalidErrorWithCause("currency code",
				fmt.Errorf("%q contains a non-uppercase character", code))
		}
	}
	if minorUnits < 0 || minorUnits > 4 {
		return Currency{}, errs.NewValueIsOutOfRangeError("currency minor units", minorUnits, 0, 4)
	}

	return Currency{code: code, minorUnits: minorUnits}, nil
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// MinorUnits returns the number of fractional digits for the currency.
func (c Currency) MinorUnits() int32 {
	return c.minorUnits
}

// IsEqual compares two currencies by code.
func (c Currency) IsEqual(other Currency) bool {
	return c.code == other.code
}

// Validate returns ErrCurrencyIsNotConstructed for the zero value.
func (c Currency) Validate() error {
	if c.code == "" {
		return ErrCurrencyIsNotConstructed
	}
	return nil
}

// CurrencyCatalogue is an immutable code-to-currency lookup built once at
// process start and passed explicitly to every consumer. It deliberately
// replaces a process-wide static table so initialization order stays visible.
type CurrencyCatalogue struct {
	byCode map[string]Currency
}

// NewCurrencyCatalogue builds the catalogue of supported currencies.
func NewCurrencyCatalogue() *CurrencyCatalogue {
	entries := []struct {
		code       string
		minorUnits int32
	}{
		{"USD", 2}, {"EUR", 2}, {"GBP", 2}, {"CAD", 2}, {"AUD", 2},
		{"NZD", 2}, {"CHF", 2}, {"SEK", 2}, {"NOK", 2}, {"DKK", 2},
		{"JPY", 0}, {"KRW", 0}, {"SGD", 2}, {"HKD", 2}, {"INR", 2},
		{"BRL", 2}, {"MXN", 2}, {"PLN", 2}, {"CZK", 2}, {"BHD", 3},
		{"KWD", 3}, {"OMR", 3},
	}

	byCode := make(map[string]Currency, len(entries))
	for _, e := range entries {
		byCode[e.code] = Currency{code: e.code, minorUnits: e.minorUnits}
	}

	return &CurrencyCatalogue{byCode: byCode}
}

// Get looks up a currency by its ISO code.
// Returns an ObjectNotFoundError for unsupported codes.
func (c *CurrencyCatalogue) Get(code string) (Currency, error) {
	currency, ok := c.byCode[code]
	if !ok {
		return Currency{}, errs.NewObjectNotFoundError("currency", code)
	}
	return currency, nil
}
