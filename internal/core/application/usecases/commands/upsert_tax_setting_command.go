package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/tax"
	"ordercore/internal/pkg/guard"
)

var ErrUpsertTaxSettingCommandIsNotConstructed = errors.New(
	"UpsertTaxSettingCommand must be created via NewUpsertTaxSettingCommand constructor",
)

// TaxValueInput describes one tax rate: a default when ProductID is nil,
// a product override otherwise.
type TaxValueInput struct {
	ProductID *kernel.ID
	ValueType tax.ValueType
	Rate      decimal.Decimal
	Title     string
}

// UpsertTaxSettingCommand represents a request to replace the store's tax
// configuration. A store has at most one setting; the command creates it or
// rewrites it wholesale.
type UpsertTaxSettingCommand struct { //nolint:recvcheck //using for validation
	storeID       kernel.StoreID
	taxesIncluded bool
	taxShipping   bool
	active        bool
	values        []TaxValueInput

	guard guard.ConstructorGuard
}

// NewUpsertTaxSettingCommand creates a command to configure store taxes.
func NewUpsertTaxSettingCommand(
	storeID kernel.StoreID,
	taxesIncluded bool,
	taxShipping bool,
	active bool,
	values []TaxValueInput,
) (UpsertTaxSettingCommand, error) {
	cmd := UpsertTaxSettingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := storeID.Validate(); err != nil {
		return UpsertTaxSettingCommand{}, err
	}

	cmd.storeID = storeID
	cmd.taxesIncluded = taxesIncluded
	cmd.taxShipping = taxShipping
	cmd.active = active
	cmd.values = values
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpsertTaxSettingCommand) Validate() error {
	return c.guard.Validate(ErrUpsertTaxSettingCommandIsNotConstructed)
}

// StoreID returns the tenant being configured.
func (c UpsertTaxSettingCommand) StoreID() kernel.StoreID {
	return c.storeID
}

// TaxesIncluded reports whether line prices carry tax inside.
func (c UpsertTaxSettingCommand) TaxesIncluded() bool {
	return c.taxesIncluded
}

// TaxShipping reports whether shipping charges are taxed.
func (c UpsertTaxSettingCommand) TaxShipping() bool {
	return c.taxShipping
}

// Active reports whether the configuration should be active.
func (c UpsertTaxSettingCommand) Active() bool {
	return c.active
}

// Values returns the configured rates.
func (c UpsertTaxSettingCommand) Values() []TaxValueInput {
	return c.values
}
