package kernel

import (
	"fmt"
	"strconv"

	"ordercore/internal/pkg/errs"
)

// ErrIDIsNotConstructed indicates that an ID was not created through NewID.
// The zero value of ID is invalid by design so that unassigned identifiers
// are caught before persistence.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be created via NewID")

// ErrStoreIDIsNotConstructed indicates that a StoreID was not created through NewStoreID.
var ErrStoreIDIsNotConstructed = errs.NewValueIsRequiredError("StoreID must be created via NewStoreID")

// ID is a value object wrapping the positive int64 surrogate identifier
// assigned to aggregates and their nested entities by the id generation
// service. Identifiers are unique per store and per entity kind.
//
// The zero value is invalid and fails Validate; entities that have not been
// assigned an identifier yet carry the zero value until first persistence.
type ID struct {
	value int64
}

// NewID creates an ID from a positive int64 value.
// Returns an error for zero or negative values.
func NewID(value int64) (ID, error) {
	if value <= 0 {
		return ID{}, errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("%d is not greater than 0", value))
	}
	return ID{value: value}, nil
}

// Int64 returns the raw identifier value.
func (i ID) Int64() int64 {
	return i.value
}

// String returns the decimal representation of the identifier.
func (i ID) String() string {
	return strconv.FormatInt(i.value, 10)
}

// IsEqual compares two identifiers by value.
func (i ID) IsEqual(other ID) bool {
	return i.value == other.value
}

// IsZero reports whether the identifier has not been assigned yet.
func (i ID) IsZero() bool {
	return i.value == 0
}

// Validate returns ErrIDIsNotConstructed for the zero value.
func (i ID) Validate() error {
	if i.value <= 0 {
		return ErrIDIsNotConstructed
	}
	return nil
}

// StoreID is a value object identifying the tenant that owns an aggregate.
// Every aggregate and every nested entity is partitioned by StoreID;
// cross-tenant access is a programming error, not a recoverable condition.
type StoreID struct {
	value int64
}

// NewStoreID creates a StoreID from a positive int64 value.
func NewStoreID(value int64) (StoreID, error) {
	if value <= 0 {
		return StoreID{}, errs.NewValueIsInvalidErrorWithCause("storeId",
			fmt.Errorf("%d is not greater than 0", value))
	}
	return StoreID{value: value}, nil
}

// Int64 returns the raw tenant identifier.
func (s StoreID) Int64() int64 {
	return s.value
}

// String returns the decimal representation of the tenant identifier.
func (s StoreID) String() string {
	return strconv.FormatInt(s.value, 10)
}

// IsEqual compares two store identifiers by value.
func (s StoreID) IsEqual(other StoreID) bool {
	return s.value == other.value
}

// Validate returns ErrStoreIDIsNotConstructed for the zero value.
func (s StoreID) Validate() error {
	if s.value <= 0 {
		return ErrStoreIDIsNotConstructed
	}
	return nil
}
