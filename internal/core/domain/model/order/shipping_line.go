package order

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrShippingLineIsNotConstructed is returned when a ShippingLine was not
// created through NewShippingLine or RestoreShippingLine.
var ErrShippingLineIsNotConstructed = errors.New("ShippingLine must be created via NewShippingLine or RestoreShippingLine")

// ShippingLine is a nested entity owned by the order describing one shipping
// charge: title, price, and the taxes applied to it when the store taxes
// shipping.
type ShippingLine struct {
	id       kernel.ID
	title    string
	price    kernel.Money
	taxLines []TaxLine

	isConstructed bool
}

// NewShippingLine creates a shipping line with a non-blank title and a
// non-negative price.
func NewShippingLine(title string, price kernel.Money) (*ShippingLine, error) {
	sl := &ShippingLine{isConstructed: true}

	if err := errors.Join(
		sl.setTitle(title),
		sl.setPrice(price),
	); err != nil {
		return nil, err
	}

	return sl, nil
}

// RestoreShippingLine reconstructs a shipping line from persistence.
func RestoreShippingLine(id kernel.ID, title string, price kernel.Money, taxLines []TaxLine) (*ShippingLine, error) {
	sl := &ShippingLine{isConstructed: true}

	if err := errors.Join(
		id.Validate(),
		sl.setTitle(title),
		sl.setPrice(price),
	); err != nil {
		return nil, err
	}

	sl.id = id
	sl.taxLines = taxLines
	return sl, nil
}

// Validate ensures the ShippingLine was created through a constructor.
func (sl *ShippingLine) Validate() error {
	if sl == nil || !sl.isConstructed {
		return ErrShippingLineIsNotConstructed
	}
	return nil
}

// ID returns the shipping line identifier; zero until assigned.
func (sl *ShippingLine) ID() kernel.ID {
	return sl.id
}

// Title returns the shipping method title.
func (sl *ShippingLine) Title() string {
	return sl.title
}

// Price returns the shipping price.
func (sl *ShippingLine) Price() kernel.Money {
	return sl.price
}

// TaxLines returns a copy of the shipping line's tax lines.
func (sl *ShippingLine) TaxLines() []TaxLine {
	out := make([]TaxLine, len(sl.taxLines))
	copy(out, sl.taxLines)
	return out
}

// TotalTax sums the shipping line's tax amounts.
func (sl *ShippingLine) TotalTax() kernel.Money {
	total, _ := kernel.ZeroMoney(sl.price.Currency())
	for _, tl := range sl.taxLines {
		total, _ = total.Add(tl.price)
	}
	return total
}

func (sl *ShippingLine) assignID(id kernel.ID) error {
	if !sl.id.IsZero() {
		return errs.NewValueIsInvalidError("shipping line id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	sl.id = id
	return nil
}

func (sl *ShippingLine) setTaxLines(taxLines []TaxLine) {
	sl.taxLines = taxLines
}

func (sl *ShippingLine) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("shipping line title")
	}
	sl.title = title
	return nil
}

func (sl *ShippingLine) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if price.IsNegative() {
		return errs.NewValueIsInvalidError("shipping line price")
	}
	sl.price = price
	return nil
}
