package services

import (
	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/tax"
)

// TaxCalculator is a domain service resolving applicable tax rates and
// computing per-line tax amounts.
//
// Rate resolution per line item is deterministic and never fails:
//  1. a rate configured for the exact product wins
//  2. otherwise the store default line_item rate applies
//  3. an inactive setting, or no matching value, resolves to zero
//
// Arithmetic depends on whether the store's prices include tax:
//   - included: tax = total − total / (1 + rate)
//   - excluded: tax = total × rate
//
// where total is unit price × full line quantity. Half-up rounding to the
// currency's minor units is applied exactly once, on the full-quantity
// amount, never per unit.
type TaxCalculator struct{}

// NewTaxCalculator creates a new TaxCalculator instance.
func NewTaxCalculator() TaxCalculator {
	return TaxCalculator{}
}

// ResolvedRate is the outcome of rate resolution: a fraction plus the
// configured display title. A zero rate carries an empty title.
type ResolvedRate struct {
	Rate  decimal.Decimal
	Title string
}

// IsZero reports whether no tax applies.
func (r ResolvedRate) IsZero() bool {
	return r.Rate.IsZero()
}

// ApplicableRate resolves the line-item rate for a product. A nil productID
// (custom items) skips straight to the store default.
func (c TaxCalculator) ApplicableRate(setting *tax.TaxSetting, productID *kernel.ID) ResolvedRate {
	return c.resolve(setting, productID, tax.ValueTypeLineItem)
}

// ShippingRate resolves the rate applied to shipping lines. It is zero when
// the setting does not tax shipping.
func (c TaxCalculator) ShippingRate(setting *tax.TaxSetting) ResolvedRate {
	if setting == nil || !setting.TaxShipping() {
		return ResolvedRate{Rate: decimal.Zero}
	}
	return c.resolve(setting, nil, tax.ValueTypeShipping)
}

// LineTax computes the tax amount for a full line: unit price times quantity
// at the resolved rate, rounded half-up once.
func (c TaxCalculator) LineTax(price kernel.Money, quantity int, rate decimal.Decimal, taxesIncluded bool) kernel.Money {
	total := price.MulInt(quantity)
	return c.amountTax(total, rate, taxesIncluded)
}

// Apply rewrites the tax lines of every taxable line item and, when the
// setting taxes shipping, every shipping line on the order.
func (c TaxCalculator) Apply(o *order.Order, setting *tax.TaxSetting) error {
	if err := o.Validate(); err != nil {
		return err
	}

	for _, li := range o.LineItems() {
		var taxLines []order.TaxLine
		if li.Taxable() {
			resolved := c.ApplicableRate(setting, li.ProductID())
			if !resolved.IsZero() {
				amount := c.LineTax(li.Price(), li.Quantity(), resolved.Rate, o.TaxesIncluded())
				taxLine, err := order.NewTaxLine(resolved.Title, resolved.Rate, amount)
				if err != nil {
					return err
				}
				taxLines = []order.TaxLine{taxLine}
			}
		}
		if err := o.SetLineItemTaxLines(li.ID(), taxLines); err != nil {
			return err
		}
	}

	shippingRate := c.ShippingRate(setting)
	for _, sl := range o.ShippingLines() {
		var taxLines []order.TaxLine
		if !shippingRate.IsZero() {
			amount := c.amountTax(sl.Price(), shippingRate.Rate, o.TaxesIncluded())
			taxLine, err := order.NewTaxLine(shippingRate.Title, shippingRate.Rate, amount)
			if err != nil {
				return err
			}
			taxLines = []order.TaxLine{taxLine}
		}
		if err := o.SetShippingLineTaxLines(sl.ID(), taxLines); err != nil {
			return err
		}
	}
	return nil
}

func (c TaxCalculator) resolve(setting *tax.TaxSetting, productID *kernel.ID, valueType tax.ValueType) ResolvedRate {
	if setting == nil || !setting.IsActive() {
		return ResolvedRate{Rate: decimal.Zero}
	}

	var fallback *tax.SettingValue
	for _, v := range setting.Values() {
		if v.ValueType() != valueType {
			continue
		}
		if v.IsDefault() {
			fallback = v
			continue
		}
		if productID != nil && v.ProductID().IsEqual(*productID) {
			return ResolvedRate{Rate: v.Rate(), Title: v.Title()}
		}
	}
	if fallback != nil {
		return ResolvedRate{Rate: fallback.Rate(), Title: fallback.Title()}
	}
	return ResolvedRate{Rate: decimal.Zero}
}

func (c TaxCalculator) amountTax(total kernel.Money, rate decimal.Decimal, taxesIncluded bool) kernel.Money {
	if taxesIncluded {
		one := decimal.NewFromInt(1)
		net := total.DivDecimal(one.Add(rate))
		taxed, _ := total.Sub(net)
		return taxed.Round()
	}
	return total.MulDecimal(rate).Round()
}
