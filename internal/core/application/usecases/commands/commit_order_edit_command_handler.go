package commands

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/core/domain/services"
	"ordercore/internal/core/ports"
)

// CommitOrderEditCommandHandler resolves an edit session against its order.
// Every staged change is validated before anything mutates; a single
// conflicting change fails the whole commit and leaves the session open.
//
// Example:
//
//	handler := NewCommitOrderEditCommandHandler(uowFactory, products)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    // session is still open, the caller can correct and retry
//	    return err
//	}
type CommitOrderEditCommandHandler struct {
	uowFactory EditUoWFactory
	products   ports.ProductLookup
}

// NewCommitOrderEditCommandHandler creates a handler for committing edit
// sessions. Requires an EditUoWFactory and a product lookup for resolving
// staged variants.
func NewCommitOrderEditCommandHandler(uowFactory EditUoWFactory, products ports.ProductLookup) CommitOrderEditCommandHandler {
	return CommitOrderEditCommandHandler{
		uowFactory: uowFactory,
		products:   products,
	}
}

// Handle commits the edit session. Order totals and taxes are recomputed
// from the store's current tax setting after the changes apply.
func (h CommitOrderEditCommandHandler) Handle(ctx context.Context, cmd CommitOrderEditCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	editRepo := uow.OrderEditRepository()
	edit, err := editRepo.Get(ctx, cmd.StoreID(), cmd.EditID())
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.StoreID(), edit.OrderID())
	if err != nil {
		return err
	}

	variants, err := h.resolveVariants(ctx, cmd.StoreID(), edit)
	if err != nil {
		return err
	}

	discountIDs, err := allocateDiscountIDs(ctx, uow.IDGenerator(), cmd.StoreID(), edit)
	if err != nil {
		return err
	}

	if err = services.NewEditCommitter().Commit(o, edit, services.CommitInput{
		Variants:               variants,
		DiscountApplicationIDs: discountIDs,
	}); err != nil {
		return err
	}

	if err = assignPendingOrderIdentifiers(ctx, uow.IDGenerator(), cmd.StoreID(), o); err != nil {
		return err
	}

	setting, err := loadTaxSetting(ctx, uow.TaxSettingRepository(), cmd.StoreID())
	if err != nil {
		return err
	}
	if err = services.NewTaxCalculator().Apply(o, setting); err != nil {
		return err
	}

	uow.Track(o)
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = editRepo.Update(ctx, edit); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// resolveVariants fetches metadata for every variant staged by add_variant
// changes. Missing variants surface later as a commit violation.
func (h CommitOrderEditCommandHandler) resolveVariants(
	ctx context.Context,
	storeID kernel.StoreID,
	edit *orderedit.OrderEdit,
) (map[int64]services.VariantInfo, error) {
	var variantIDs []kernel.ID
	seen := make(map[int64]bool)
	for _, change := range edit.Changes() {
		if change.Kind() != orderedit.ChangeKindAddVariant {
			continue
		}
		v := change.VariantID()
		if v == nil || seen[v.Int64()] {
			continue
		}
		seen[v.Int64()] = true
		variantIDs = append(variantIDs, *v)
	}

	if len(variantIDs) == 0 {
		return map[int64]services.VariantInfo{}, nil
	}
	return h.products.VariantsByIDs(ctx, storeID, variantIDs)
}

func allocateDiscountIDs(
	ctx context.Context,
	gen ports.IDGenerator,
	storeID kernel.StoreID,
	edit *orderedit.OrderEdit,
) ([]kernel.ID, error) {
	count := 0
	for _, change := range edit.Changes() {
		if change.Kind() == orderedit.ChangeKindSetItemDiscount {
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}

	batch, err := gen.Allocate(ctx, storeID, map[ports.IDKind]int{
		ports.IDKindDiscountApplication: count,
	})
	if err != nil {
		return nil, err
	}
	return batch.Take(ports.IDKindDiscountApplication, count)
}

// assignPendingOrderIdentifiers gives identifiers to entities the commit
// staged onto the order (new line items from add changes).
func assignPendingOrderIdentifiers(
	ctx context.Context,
	gen ports.IDGenerator,
	storeID kernel.StoreID,
	o *order.Order,
) error {
	lineCount, shippingCount, txCount := o.PendingIdentifierCounts()
	if lineCount == 0 && shippingCount == 0 && txCount == 0 {
		return nil
	}

	batch, err := gen.Allocate(ctx, storeID, map[ports.IDKind]int{
		ports.IDKindLineItem:     lineCount,
		ports.IDKindShippingLine: shippingCount,
		ports.IDKindTransaction:  txCount,
	})
	if err != nil {
		return err
	}

	lineIDs, err := batch.Take(ports.IDKindLineItem, lineCount)
	if err != nil {
		return err
	}
	shippingIDs, err := batch.Take(ports.IDKindShippingLine, shippingCount)
	if err != nil {
		return err
	}
	txIDs, err := batch.Take(ports.IDKindTransaction, txCount)
	if err != nil {
		return err
	}
	return o.AssignPendingEntityIdentifiers(lineIDs, shippingIDs, txIDs)
}
