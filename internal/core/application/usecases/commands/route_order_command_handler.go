package commands

import (
	"context"
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/domain/services"
	"ordercore/internal/core/ports"
)

var ErrNothingToRoute = errors.New("order has no fulfillable line items")

// RouteOrderCommandHandler orchestrates fulfillment routing for one order.
// Reads the inventory snapshot, lets the router propose assignments, and
// persists the resulting fulfillment orders transactionally. Lines no
// location can supply are reported back, not failed.
//
// Example:
//
//	handler := NewRouteOrderCommandHandler(uowFactory, inventory)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("routing failed: %w", err)
//	}
//	log.Printf("routed into %d fulfillment orders, %d lines unfulfillable",
//	    len(result.FulfillmentOrderIDs), len(result.Unfulfillable))
type RouteOrderCommandHandler struct {
	uowFactory RoutingUoWFactory
	inventory  ports.InventoryLookup
}

// RouteOrderResult reports the persisted fulfillment orders and the lines
// that could not be assigned anywhere.
type RouteOrderResult struct {
	FulfillmentOrderIDs []kernel.ID
	Unfulfillable       []services.RoutingLine
}

// NewRouteOrderCommandHandler creates a handler for routing operations.
// Requires a RoutingUoWFactory and an inventory lookup for stock snapshots.
func NewRouteOrderCommandHandler(uowFactory RoutingUoWFactory, inventory ports.InventoryLookup) RouteOrderCommandHandler {
	return RouteOrderCommandHandler{
		uowFactory: uowFactory,
		inventory:  inventory,
	}
}

// Handle processes the routing command. Only lines with fulfillable quantity
// participate; returns ErrNothingToRoute when nothing is left to assign.
func (h RouteOrderCommandHandler) Handle(ctx context.Context, cmd RouteOrderCommand) (RouteOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return RouteOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RouteOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.StoreID(), cmd.OrderID())
	if err != nil {
		return RouteOrderResult{}, err
	}

	lines, variantIDs := routableLines(o)
	if len(lines) == 0 {
		return RouteOrderResult{}, ErrNothingToRoute
	}

	stocks, err := h.inventory.StocksForVariants(ctx, cmd.StoreID(), variantIDs)
	if err != nil {
		return RouteOrderResult{}, err
	}

	result, err := services.NewFulfillmentOrderRouter().Route(cmd.StoreID(), cmd.OrderID(), services.RouteRequest{
		Policy:         cmd.Policy(),
		DeliveryMethod: cmd.DeliveryMethod(),
		Destination:    cmd.Destination(),
		Lines:          lines,
	}, stocks)
	if err != nil {
		return RouteOrderResult{}, err
	}

	foRepo := uow.FulfillmentOrderRepository()
	foIDs := make([]kernel.ID, 0, len(result.FulfillmentOrders))
	for _, fo := range result.FulfillmentOrders {
		lineCount := len(fo.LineItems())
		batch, err := uow.IDGenerator().Allocate(ctx, cmd.StoreID(), map[ports.IDKind]int{
			ports.IDKindFulfillmentOrder:         1,
			ports.IDKindFulfillmentOrderLineItem: lineCount,
		})
		if err != nil {
			return RouteOrderResult{}, err
		}

		foID, err := batch.Next(ports.IDKindFulfillmentOrder)
		if err != nil {
			return RouteOrderResult{}, err
		}
		lineIDs, err := batch.Take(ports.IDKindFulfillmentOrderLineItem, lineCount)
		if err != nil {
			return RouteOrderResult{}, err
		}
		if err = fo.AssignIdentifiers(foID, lineIDs); err != nil {
			return RouteOrderResult{}, err
		}

		if err = foRepo.Add(ctx, fo); err != nil {
			return RouteOrderResult{}, err
		}
		foIDs = append(foIDs, foID)
	}

	if err = uow.Commit(ctx); err != nil {
		return RouteOrderResult{}, err
	}

	return RouteOrderResult{
		FulfillmentOrderIDs: foIDs,
		Unfulfillable:       result.Unfulfillable,
	}, nil
}

// routableLines collects order lines that still need fulfillment, with the
// distinct variants for the inventory query.
func routableLines(o *order.Order) ([]services.RoutingLine, []kernel.ID) {
	var lines []services.RoutingLine
	var variantIDs []kernel.ID
	seen := make(map[int64]bool)

	for _, li := range o.LineItems() {
		qty := li.FulfillableQuantity()
		if qty <= 0 {
			continue
		}
		lines = append(lines, services.RoutingLine{
			OrderLineItemID: li.ID(),
			VariantID:       li.VariantID(),
			Quantity:        qty,
		})
		if v := li.VariantID(); v != nil && !seen[v.Int64()] {
			seen[v.Int64()] = true
			variantIDs = append(variantIDs, *v)
		}
	}
	return lines, variantIDs
}
