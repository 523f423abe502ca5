package commands

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/tax"
	"ordercore/internal/core/ports"
	"ordercore/internal/pkg/errs"
)

// UpsertTaxSettingCommandHandler replaces the store's tax configuration.
// Duplicate rates for the same scope are rejected by the aggregate before
// anything persists. Changing the configuration never rewrites tax already
// recorded on existing orders.
type UpsertTaxSettingCommandHandler struct {
	uowFactory TaxUoWFactory
}

// NewUpsertTaxSettingCommandHandler creates a handler for tax configuration.
func NewUpsertTaxSettingCommandHandler(uowFactory TaxUoWFactory) UpsertTaxSettingCommandHandler {
	return UpsertTaxSettingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle builds the new setting, assigns identifiers, and stores it. An
// existing setting is replaced under its identifier; a missing one is
// created.
func (h UpsertTaxSettingCommandHandler) Handle(ctx context.Context, cmd UpsertTaxSettingCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.ID{}, err
	}

	values := make([]*tax.SettingValue, 0, len(cmd.Values()))
	for _, in := range cmd.Values() {
		v, err := tax.NewSettingValue(in.ProductID, in.ValueType, in.Rate, in.Title)
		if err != nil {
			return kernel.ID{}, err
		}
		values = append(values, v)
	}

	setting, err := tax.NewTaxSetting(cmd.StoreID(), cmd.TaxesIncluded(), cmd.TaxShipping(), values)
	if err != nil {
		return kernel.ID{}, err
	}
	if !cmd.Active() {
		if err = setting.Deactivate(); err != nil {
			return kernel.ID{}, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.ID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TaxSettingRepository()
	existing, err := repo.GetByStore(ctx, cmd.StoreID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.ID{}, err
	}

	var settingID kernel.ID
	valueIDs := make([]kernel.ID, 0, len(values))

	if existing != nil {
		settingID = existing.ID()
	} else {
		batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
			ports.IDKindTaxSetting: 1,
		})
		if err != nil {
			return kernel.ID{}, err
		}
		if settingID, err = batch.Next(ports.IDKindTaxSetting); err != nil {
			return kernel.ID{}, err
		}
	}

	if len(values) > 0 {
		batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
			ports.IDKindTaxValue: len(values),
		})
		if err != nil {
			return kernel.ID{}, err
		}
		if valueIDs, err = batch.Take(ports.IDKindTaxValue, len(values)); err != nil {
			return kernel.ID{}, err
		}
	}

	if err = setting.AssignIdentifiers(settingID, valueIDs); err != nil {
		return kernel.ID{}, err
	}

	if existing != nil {
		err = repo.Update(ctx, setting)
	} else {
		err = repo.Add(ctx, setting)
	}
	if err != nil {
		return kernel.ID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ID{}, err
	}

	return settingID, nil
}
