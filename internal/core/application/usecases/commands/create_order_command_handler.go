package commands

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/model/tax"
	"ordercore/internal/core/domain/services"
	"ordercore/internal/core/ports"
	"ordercore/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Builds the order aggregate from the requested lines, resolves the store's
// tax configuration, assigns identifiers from the shared counters, and
// persists everything in one transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, customerLookup)
//	orderID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	customers  ports.CustomerLookup
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence and a customer
// lookup to verify customer references.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, customers ports.CustomerLookup) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		customers:  customers,
	}
}

// Handle processes the order creation command and returns the identifier of
// the created order. Whether taxes are included in prices is read from the
// store's tax setting at creation time and recorded on the order for life.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.ID{}, err
	}

	lineItems, err := buildLineItems(cmd.LineItems())
	if err != nil {
		return kernel.ID{}, err
	}

	shippingLines, err := buildShippingLines(cmd.ShippingLines())
	if err != nil {
		return kernel.ID{}, err
	}

	if cmd.CustomerID() != nil {
		exists, lookupErr := h.customers.Exists(ctx, cmd.StoreID(), *cmd.CustomerID())
		if lookupErr != nil {
			return kernel.ID{}, lookupErr
		}
		if !exists {
			return kernel.ID{}, errs.NewObjectNotFoundError("customerId", cmd.CustomerID().String())
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.ID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	setting, err := loadTaxSetting(ctx, uow.TaxSettingRepository(), cmd.StoreID())
	if err != nil {
		return kernel.ID{}, err
	}

	taxesIncluded := setting != nil && setting.TaxesIncluded()
	o, err := order.NewOrder(cmd.StoreID(), cmd.Name(), cmd.Currency(), taxesIncluded, lineItems, shippingLines)
	if err != nil {
		return kernel.ID{}, err
	}

	if cmd.CustomerID() != nil {
		if err = o.SetCustomer(cmd.CustomerID(), cmd.BillingAddressID(), cmd.ShippingAddressID()); err != nil {
			return kernel.ID{}, err
		}
	}

	lineCount, shippingCount, txCount := o.PendingIdentifierCounts()
	batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
		ports.IDKindOrder:        1,
		ports.IDKindLineItem:     lineCount,
		ports.IDKindShippingLine: shippingCount,
		ports.IDKindTransaction:  txCount,
	})
	if err != nil {
		return kernel.ID{}, err
	}

	orderID, lineIDs, shippingIDs, txIDs, err := orderIdentifiers(batch, lineCount, shippingCount, txCount)
	if err != nil {
		return kernel.ID{}, err
	}
	if err = o.AssignIdentifiers(orderID, lineIDs, shippingIDs, txIDs); err != nil {
		return kernel.ID{}, err
	}

	if err = services.NewTaxCalculator().Apply(o, setting); err != nil {
		return kernel.ID{}, err
	}

	uow.Track(o)
	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.ID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ID{}, err
	}

	return orderID, nil
}

func buildLineItems(inputs []LineItemInput) ([]*order.LineItem, error) {
	lineItems := make([]*order.LineItem, 0, len(inputs))
	for _, in := range inputs {
		var (
			li  *order.LineItem
			err error
		)
		if in.VariantID != nil && in.ProductID != nil {
			li, err = order.NewLineItem(*in.VariantID, *in.ProductID, in.Title, in.Quantity, in.Price, in.Taxable, in.RequiresShipping)
		} else {
			li, err = order.NewCustomLineItem(in.Title, in.Quantity, in.Price, in.Taxable, in.RequiresShipping)
		}
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, li)
	}
	return lineItems, nil
}

func buildShippingLines(inputs []ShippingLineInput) ([]*order.ShippingLine, error) {
	shippingLines := make([]*order.ShippingLine, 0, len(inputs))
	for _, in := range inputs {
		sl, err := order.NewShippingLine(in.Title, in.Price)
		if err != nil {
			return nil, err
		}
		shippingLines = append(shippingLines, sl)
	}
	return shippingLines, nil
}

// loadTaxSetting treats a missing configuration as "no taxes": the handler
// gets nil and the calculator produces zero rates.
func loadTaxSetting(ctx context.Context, repo ports.TaxSettingRepository, storeID kernel.StoreID) (*tax.TaxSetting, error) {
	setting, err := repo.GetByStore(ctx, storeID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func orderIdentifiers(batch *ports.IDBatch, lineCount, shippingCount, txCount int) (kernel.ID, []kernel.ID, []kernel.ID, []kernel.ID, error) {
	orderID, err := batch.Next(ports.IDKindOrder)
	if err != nil {
		return kernel.ID{}, nil, nil, nil, err
	}
	lineIDs, err := batch.Take(ports.IDKindLineItem, lineCount)
	if err != nil {
		return kernel.ID{}, nil, nil, nil, err
	}
	shippingIDs, err := batch.Take(ports.IDKindShippingLine, shippingCount)
	if err != nil {
		return kernel.ID{}, nil, nil, nil, err
	}
	txIDs, err := batch.Take(ports.IDKindTransaction, txCount)
	if err != nil {
		return kernel.ID{}, nil, nil, nil, err
	}
	return orderID, lineIDs, shippingIDs, txIDs, nil
}
