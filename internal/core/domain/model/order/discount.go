package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// DiscountKind discriminates how a discount value is interpreted.
type DiscountKind int

const (
	DiscountKindUnknown DiscountKind = iota

	// DiscountKindFixed interprets the value as a fixed monetary amount.
	DiscountKindFixed

	// DiscountKindPercentage interprets the value as a percentage in [0, 100].
	DiscountKindPercentage
)

// String returns the lowercase name of the discount kind.
func (k DiscountKind) String() string {
	switch k {
	case DiscountKindFixed:
		return "fixed_amount"
	case DiscountKindPercentage:
		return "percentage"
	default:
		return "unknown"
	}
}

// Validate checks if the DiscountKind is valid.
func (k DiscountKind) Validate() error {
	if k != DiscountKindFixed && k != DiscountKindPercentage {
		return errs.NewValueIsInvalidErrorWithCause("discount kind",
			fmt.Errorf("%d is not a valid discount kind", k))
	}
	return nil
}

// DiscountApplication describes one discount applied to the order: either a
// fixed amount or a percentage. Its monetary effect per line is recorded
// separately as DiscountAllocation entries.
type DiscountApplication struct {
	id    kernel.ID
	kind  DiscountKind
	value decimal.Decimal
	title string
}

// NewDiscountApplication creates a DiscountApplication.
// Percentage values must lie in [0, 100]; fixed values must be non-negative.
func NewDiscountApplication(id kernel.ID, kind DiscountKind, value decimal.Decimal, title string) (DiscountApplication, error) {
	if err := id.Validate(); err != nil {
		return DiscountApplication{}, err
	}
	if err := kind.Validate(); err != nil {
		return DiscountApplication{}, err
	}
	if value.IsNegative() {
		return DiscountApplication{}, errs.NewValueIsInvalidError("discount value")
	}
	if kind == DiscountKindPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return DiscountApplication{}, errs.NewValueIsOutOfRangeError("discount percentage", value.String(), 0, 100)
	}

	return DiscountApplication{id: id, kind: kind, value: value, title: title}, nil
}

// ID returns the discount application identifier.
func (d DiscountApplication) ID() kernel.ID {
	return d.id
}

// Kind returns how the discount value is interpreted.
func (d DiscountApplication) Kind() DiscountKind {
	return d.kind
}

// Value returns the raw discount value (amount or percentage).
func (d DiscountApplication) Value() decimal.Decimal {
	return d.value
}

// Title returns the human-readable discount title.
func (d DiscountApplication) Title() string {
	return d.title
}

// IsEqual compares two discount applications field by field.
func (d DiscountApplication) IsEqual(other DiscountApplication) bool {
	return d.id.IsEqual(other.id) &&
		d.kind == other.kind &&
		d.value.Equal(other.value) &&
		d.title == other.title
}

// DiscountAllocation is the monetary share of a discount application
// allocated to one line item.
type DiscountAllocation struct {
	discountApplicationID kernel.ID
	amount                kernel.Money
}

// NewDiscountAllocation creates a DiscountAllocation for the given
// application and non-negative amount.
func NewDiscountAllocation(discountApplicationID kernel.ID, amount kernel.Money) (DiscountAllocation, error) {
	if err := discountApplicationID.Validate(); err != nil {
		return DiscountAllocation{}, err
	}
	if err := amount.Validate(); err != nil {
		return DiscountAllocation{}, err
	}
	if amount.IsNegative() {
		return DiscountAllocation{}, errs.NewValueIsInvalidError("discount allocation amount")
	}

	return DiscountAllocation{discountApplicationID: discountApplicationID, amount: amount}, nil
}

// DiscountApplicationID returns the application this allocation belongs to.
func (a DiscountAllocation) DiscountApplicationID() kernel.ID {
	return a.discountApplicationID
}

// Amount returns the allocated discount amount.
func (a DiscountAllocation) Amount() kernel.Money {
	return a.amount
}

// IsEqual compares two allocations field by field.
func (a DiscountAllocation) IsEqual(other DiscountAllocation) bool {
	return a.discountApplicationID.IsEqual(other.discountApplicationID) &&
		a.amount.IsEqual(other.amount)
}
