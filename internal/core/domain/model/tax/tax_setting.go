package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// ErrTaxSettingIsNotConstructed is returned when a TaxSetting was not created
// through NewTaxSetting or RestoreTaxSetting.
var ErrTaxSettingIsNotConstructed = errors.New("TaxSetting must be created via NewTaxSetting or RestoreTaxSetting")

// ErrValueIsNotConstructed is returned when a SettingValue was not created
// through NewSettingValue or RestoreSettingValue.
var ErrValueIsNotConstructed = errors.New("SettingValue must be created via NewSettingValue or RestoreSettingValue")

// Status marks whether a store's tax setting participates in calculation.
type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusInactive
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "unknown",
		StatusActive:   "active",
		StatusInactive: "inactive",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("tax setting status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("tax setting status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValueType discriminates what a rate applies to.
type ValueType int

const (
	ValueTypeUnknown ValueType = iota
	ValueTypeLineItem
	ValueTypeShipping
)

func getValueTypeStrings() map[ValueType]string {
	return map[ValueType]string{
		ValueTypeUnknown:  "unknown",
		ValueTypeLineItem: "line_item",
		ValueTypeShipping: "shipping",
	}
}

// Validate checks if the ValueType is valid.
func (v ValueType) Validate() error {
	if v == ValueTypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("tax value type",
			fmt.Errorf("%d is not a valid value type", v))
	}
	if _, ok := getValueTypeStrings()[v]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("tax value type",
			fmt.Errorf("%d is not a valid value type", v))
	}
	return nil
}

// String returns the lowercase name of the value type.
func (v ValueType) String() string {
	if str, ok := getValueTypeStrings()[v]; ok {
		return str
	}
	return "unknown"
}

// SettingValue is one configured rate: either the store default (nil
// productID) or a product-specific override, per value type.
type SettingValue struct {
	id        kernel.ID
	productID *kernel.ID
	valueType ValueType
	rate      decimal.Decimal
	title     string

	isConstructed bool
}

// NewSettingValue creates a rate entry. The rate is a fraction (0.07 means
// 7%) and must lie within 0..1.
func NewSettingValue(productID *kernel.ID, valueType ValueType, rate decimal.Decimal, title string) (*SettingValue, error) {
	v := &SettingValue{isConstructed: true}

	if err := valueType.Validate(); err != nil {
		return nil, err
	}
	if productID != nil {
		if err := productID.Validate(); err != nil {
			return nil, err
		}
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, errs.NewValueIsInvalidErrorWithCause("tax rate",
			fmt.Errorf("%s is outside 0..1", rate))
	}
	if title == "" {
		return nil, errs.NewValueIsRequiredError("tax value title")
	}

	v.productID = productID
	v.valueType = valueType
	v.rate = rate
	v.title = title
	return v, nil
}

// RestoreSettingValue reconstructs a rate entry from persistence.
func RestoreSettingValue(id kernel.ID, productID *kernel.ID, valueType ValueType, rate decimal.Decimal, title string) (*SettingValue, error) {
	v, err := NewSettingValue(productID, valueType, rate, title)
	if err != nil {
		return nil, err
	}
	if err = id.Validate(); err != nil {
		return nil, err
	}

	v.id = id
	return v, nil
}

// Validate ensures the SettingValue was created through a constructor.
func (v *SettingValue) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrValueIsNotConstructed
	}
	return nil
}

// ID returns the value identifier; zero until assigned.
func (v *SettingValue) ID() kernel.ID { return v.id }

// ProductID returns the product the rate overrides, or nil for the store
// default.
func (v *SettingValue) ProductID() *kernel.ID { return v.productID }

// IsDefault reports whether the rate is the store default for its type.
func (v *SettingValue) IsDefault() bool { return v.productID == nil }

// ValueType returns what the rate applies to.
func (v *SettingValue) ValueType() ValueType { return v.valueType }

// Rate returns the rate as a fraction.
func (v *SettingValue) Rate() decimal.Decimal { return v.rate }

// Title returns the display title, e.g. "State Tax".
func (v *SettingValue) Title() string { return v.title }

func (v *SettingValue) assignID(id kernel.ID) error {
	if !v.id.IsZero() {
		return errs.NewValueIsInvalidError("tax value id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

// TaxSetting is the aggregate root for a store's tax configuration: whether
// line prices include tax, whether shipping is taxed, and the configured
// rates. An inactive setting resolves every rate to zero.
//
// Invariant: at most one default and at most one value per product, per
// value type. Guarded on construction and on AddValue.
type TaxSetting struct {
	id      kernel.ID
	storeID kernel.StoreID

	taxesIncluded bool
	taxShipping   bool
	status        Status
	values        []*SettingValue

	isConstructed bool
}

// NewTaxSetting creates an active tax setting with the given rates.
func NewTaxSetting(storeID kernel.StoreID, taxesIncluded, taxShipping bool, values []*SettingValue) (*TaxSetting, error) {
	s := &TaxSetting{
		status:        StatusActive,
		isConstructed: true,
	}

	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if err := checkValueUniqueness(values); err != nil {
		return nil, err
	}

	s.storeID = storeID
	s.taxesIncluded = taxesIncluded
	s.taxShipping = taxShipping
	s.values = values
	return s, nil
}

// RestoreTaxSetting reconstructs a tax setting from persistence.
func RestoreTaxSetting(id kernel.ID, storeID kernel.StoreID, taxesIncluded, taxShipping bool, status Status, values []*SettingValue) (*TaxSetting, error) {
	s, err := NewTaxSetting(storeID, taxesIncluded, taxShipping, values)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	s.id = id
	s.status = status
	return s, nil
}

// Validate ensures the TaxSetting was created through a constructor.
func (s *TaxSetting) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrTaxSettingIsNotConstructed
	}
	return nil
}

// AssignIdentifiers assigns the allocated identifiers to the setting and its
// values, consuming the batch first-in-first-out.
func (s *TaxSetting) AssignIdentifiers(id kernel.ID, valueIDs []kernel.ID) error {
	if !s.id.IsZero() {
		return errs.NewValueIsInvalidError("tax setting id already assigned")
	}
	if err := id.Validate(); err != nil {
		return err
	}
	if len(valueIDs) != len(s.values) {
		return errs.NewValueIsInvalidErrorWithCause("identifier batch sizes",
			fmt.Errorf("got %d value ids, need %d", len(valueIDs), len(s.values)))
	}

	s.id = id
	for i, v := range s.values {
		if err := v.assignID(valueIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// AddValue appends a rate entry, rejecting duplicates per (product, type).
func (s *TaxSetting) AddValue(value *SettingValue) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := value.Validate(); err != nil {
		return err
	}
	if err := checkValueUniqueness(append(s.Values(), value)); err != nil {
		return err
	}

	s.values = append(s.values, value)
	return nil
}

// Activate turns the setting back on.
func (s *TaxSetting) Activate() error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.status = StatusActive
	return nil
}

// Deactivate turns the setting off; calculation then resolves every rate to
// zero instead of failing.
func (s *TaxSetting) Deactivate() error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.status = StatusInactive
	return nil
}

// IsEqual compares two tax settings by identifier.
func (s *TaxSetting) IsEqual(other *TaxSetting) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the setting identifier; zero until assigned.
func (s *TaxSetting) ID() kernel.ID { return s.id }

// StoreID returns the owning tenant.
func (s *TaxSetting) StoreID() kernel.StoreID { return s.storeID }

// TaxesIncluded reports whether line prices already contain tax.
func (s *TaxSetting) TaxesIncluded() bool { return s.taxesIncluded }

// TaxShipping reports whether shipping lines are taxed.
func (s *TaxSetting) TaxShipping() bool { return s.taxShipping }

// Status returns whether the setting participates in calculation.
func (s *TaxSetting) Status() Status { return s.status }

// IsActive reports whether rates resolve to their configured values.
func (s *TaxSetting) IsActive() bool { return s.status == StatusActive }

// Values returns the configured rates.
func (s *TaxSetting) Values() []*SettingValue {
	out := make([]*SettingValue, len(s.values))
	copy(out, s.values)
	return out
}

// checkValueUniqueness enforces at most one default and one value per
// product, per value type.
func checkValueUniqueness(values []*SettingValue) error {
	type key struct {
		valueType ValueType
		productID int64
	}

	seen := make(map[key]bool, len(values))
	for _, v := range values {
		k := key{valueType: v.valueType}
		if v.productID != nil {
			k.productID = v.productID.Int64()
		}
		if seen[k] {
			if v.productID == nil {
				return errs.NewDomainRuleViolationError("tax-value-uniqueness",
					fmt.Sprintf("duplicate default %s rate", v.valueType))
			}
			return errs.NewDomainRuleViolationError("tax-value-uniqueness",
				fmt.Sprintf("duplicate %s rate for product %s", v.valueType, v.productID))
		}
		seen[k] = true
	}
	return nil
}
