package orderedit

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrChangeIsNotConstructed is returned when a Change was not created
// through one of its constructors.
var ErrChangeIsNotConstructed = errors.New("Change must be created via NewAddVariantChange, NewAddCustomItemChange, NewSetItemQuantityChange, NewSetItemDiscountChange, or RestoreChange")

// ChangeKind discriminates staged order edit changes.
type ChangeKind int

const (
	ChangeKindUnknown ChangeKind = iota
	ChangeKindAddVariant
	ChangeKindAddCustomItem
	ChangeKindSetItemQuantity
	ChangeKindSetItemDiscount
)

func getChangeKindStrings() map[ChangeKind]string {
	return map[ChangeKind]string{
		ChangeKindUnknown:         "unknown",
		ChangeKindAddVariant:      "add_variant",
		ChangeKindAddCustomItem:   "add_custom_item",
		ChangeKindSetItemQuantity: "set_item_quantity",
		ChangeKindSetItemDiscount: "set_item_discount",
	}
}

// Validate checks if the ChangeKind is valid.
func (k ChangeKind) Validate() error {
	if k == ChangeKindUnknown {
		return errs.NewValueIsInvalidErrorWithCause("change kind",
			fmt.Errorf("%d is not a valid change kind", k))
	}
	if _, ok := getChangeKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("change kind",
			fmt.Errorf("%d is not a valid change kind", k))
	}
	return nil
}

// String returns the lowercase name of the change kind.
func (k ChangeKind) String() string {
	if str, ok := getChangeKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// Change is a nested entity staged inside an order edit session. Each kind
// carries its own payload; the unused fields stay at their zero values.
// Validation happens at staging time so a committed edit never resolves an
// ill-formed change.
type Change struct {
	id   kernel.ID
	kind ChangeKind

	// add_variant
	variantID      *kernel.ID
	locationID     *kernel.ID
	allowDuplicate bool

	// add_custom_item
	title            string
	price            kernel.Money
	taxable          bool
	requiresShipping bool

	// set_item_quantity / set_item_discount
	lineItemID *kernel.ID
	restock    bool

	fixedValue   *decimal.Decimal
	percentValue *decimal.Decimal

	// shared by add_variant, add_custom_item, set_item_quantity
	quantity int

	isConstructed bool
}

// NewAddVariantChange stages adding a product variant to the order.
func NewAddVariantChange(variantID kernel.ID, quantity int, locationID *kernel.ID, allowDuplicate bool) (*Change, error) {
	if err := variantID.Validate(); err != nil {
		return nil, err
	}
	if locationID != nil {
		if err := locationID.Validate(); err != nil {
			return nil, err
		}
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("change quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return &Change{
		kind:           ChangeKindAddVariant,
		variantID:      &variantID,
		locationID:     locationID,
		quantity:       quantity,
		allowDuplicate: allowDuplicate,
		isConstructed:  true,
	}, nil
}

// NewAddCustomItemChange stages adding an ad-hoc item without a backing
// variant.
func NewAddCustomItemChange(title string, price kernel.Money, quantity int, taxable, requiresShipping bool) (*Change, error) {
	if title == "" {
		return nil, errs.NewValueIsRequiredError("custom item title")
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, errs.NewValueIsInvalidError("custom item price")
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("change quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return &Change{
		kind:             ChangeKindAddCustomItem,
		title:            title,
		price:            price,
		quantity:         quantity,
		taxable:          taxable,
		requiresShipping: requiresShipping,
		isConstructed:    true,
	}, nil
}

// NewSetItemQuantityChange stages changing an existing line's quantity.
// Quantity zero removes the line at commit time.
func NewSetItemQuantityChange(lineItemID kernel.ID, quantity int, restock bool) (*Change, error) {
	if err := lineItemID.Validate(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("change quantity",
			fmt.Errorf("%d is negative", quantity))
	}

	return &Change{
		kind:          ChangeKindSetItemQuantity,
		lineItemID:    &lineItemID,
		quantity:      quantity,
		restock:       restock,
		isConstructed: true,
	}, nil
}

// NewSetItemDiscountChange stages a discount on an existing line. Exactly one
// of fixedValue and percentValue must be set; providing both or neither is a
// validation error at staging time.
func NewSetItemDiscountChange(lineItemID kernel.ID, title string, fixedValue, percentValue *decimal.Decimal) (*Change, error) {
	if err := lineItemID.Validate(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, errs.NewValueIsRequiredError("discount title")
	}
	if (fixedValue == nil) == (percentValue == nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("discount value",
			errors.New("exactly one of fixed value and percent value must be set"))
	}
	if fixedValue != nil && fixedValue.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("discount fixed value",
			fmt.Errorf("%s is negative", fixedValue))
	}
	if percentValue != nil &&
		(percentValue.IsNegative() || percentValue.GreaterThan(decimal.NewFromInt(100))) {
		return nil, errs.NewValueIsInvalidErrorWithCause("discount percent value",
			fmt.Errorf("%s is outside 0..100", percentValue))
	}

	return &Change{
		kind:          ChangeKindSetItemDiscount,
		lineItemID:    &lineItemID,
		title:         title,
		fixedValue:    fixedValue,
		percentValue:  percentValue,
		isConstructed: true,
	}, nil
}

// RestoreChange reconstructs a staged change from persistence without
// re-running the kind-specific staging validation.
func RestoreChange(
	id kernel.ID,
	kind ChangeKind,
	variantID, locationID, lineItemID *kernel.ID,
	title string,
	price kernel.Money,
	quantity int,
	taxable, requiresShipping, allowDuplicate, restock bool,
	fixedValue, percentValue *decimal.Decimal,
) (*Change, error) {
	if err := errors.Join(id.Validate(), kind.Validate()); err != nil {
		return nil, err
	}

	return &Change{
		id:               id,
		kind:             kind,
		variantID:        variantID,
		locationID:       locationID,
		lineItemID:       lineItemID,
		title:            title,
		price:            price,
		quantity:         quantity,
		taxable:          taxable,
		requiresShipping: requiresShipping,
		allowDuplicate:   allowDuplicate,
		restock:          restock,
		fixedValue:       fixedValue,
		percentValue:     percentValue,
		isConstructed:    true,
	}, nil
}

// Validate ensures the Change was created through a constructor.
func (c *Change) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrChangeIsNotConstructed
	}
	return nil
}

// ID returns the change identifier; zero until assigned.
func (c *Change) ID() kernel.ID { return c.id }

// Kind returns the change kind.
func (c *Change) Kind() ChangeKind { return c.kind }

// VariantID returns the variant for add_variant changes, or nil.
func (c *Change) VariantID() *kernel.ID { return c.variantID }

// LocationID returns the preferred location for add_variant changes, or nil.
func (c *Change) LocationID() *kernel.ID { return c.locationID }

// AllowDuplicate reports whether an add_variant change refuses merging.
func (c *Change) AllowDuplicate() bool { return c.allowDuplicate }

// Title returns the custom item or discount title.
func (c *Change) Title() string { return c.title }

// Price returns the custom item price.
func (c *Change) Price() kernel.Money { return c.price }

// Quantity returns the staged quantity.
func (c *Change) Quantity() int { return c.quantity }

// Taxable reports whether taxes apply to the custom item.
func (c *Change) Taxable() bool { return c.taxable }

// RequiresShipping reports whether the custom item ships physically.
func (c *Change) RequiresShipping() bool { return c.requiresShipping }

// LineItemID returns the targeted order line, or nil.
func (c *Change) LineItemID() *kernel.ID { return c.lineItemID }

// Restock reports whether a quantity decrease returns stock.
func (c *Change) Restock() bool { return c.restock }

// FixedValue returns the fixed discount amount, or nil.
func (c *Change) FixedValue() *decimal.Decimal { return c.fixedValue }

// PercentValue returns the percentage discount, or nil.
func (c *Change) PercentValue() *decimal.Decimal { return c.percentValue }

func (c *Change) assignID(id kernel.ID) error {
	if !c.id.IsZero() {
		return errs.NewValueIsInvalidError("change id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

// mergeableWith reports whether another add_variant change targets the same
// variant and location and neither side insists on a separate line.
func (c *Change) mergeableWith(other *Change) bool {
	if c.kind != ChangeKindAddVariant || other.kind != ChangeKindAddVariant {
		return false
	}
	if c.allowDuplicate || other.allowDuplicate {
		return false
	}
	if !c.variantID.IsEqual(*other.variantID) {
		return false
	}
	switch {
	case c.locationID == nil && other.locationID == nil:
		return true
	case c.locationID != nil && other.locationID != nil:
		return c.locationID.IsEqual(*other.locationID)
	default:
		return false
	}
}

func (c *Change) increaseQuantity(by int) {
	c.quantity += by
}
