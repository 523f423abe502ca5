package queries

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var (
	ErrGetUnfulfilledOrdersQueryIsNotConstructed = errors.New(
		"GetUnfulfilledOrdersQuery must be created via NewGetUnfulfilledOrdersQuery constructor",
	)
)

// GetUnfulfilledOrdersQuery retrieves the open orders of a store that
// still have units to ship. Backs fulfillment dashboards and routing.
//
// Example:
//
//	query, err := NewGetUnfulfilledOrdersQuery(storeID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetUnfulfilledOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get unfulfilled orders: %w", err)
//	}
//
//	fmt.Printf("Found %d orders awaiting fulfillment\n", len(orders))
type GetUnfulfilledOrdersQuery struct {
	guard guard.ConstructorGuard

	storeID kernel.StoreID
}

// NewGetUnfulfilledOrdersQuery creates a query for the store's
// unfulfilled open orders.
func NewGetUnfulfilledOrdersQuery(storeID kernel.StoreID) (GetUnfulfilledOrdersQuery, error) {
	if err := storeID.Validate(); err != nil {
		return GetUnfulfilledOrdersQuery{}, err
	}
	return GetUnfulfilledOrdersQuery{
		guard:   guard.NewConstructorGuard(),
		storeID: storeID,
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnfulfilledOrdersQueryIsNotConstructed if validation fails.
func (q GetUnfulfilledOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnfulfilledOrdersQueryIsNotConstructed)
}

func (q GetUnfulfilledOrdersQuery) StoreID() kernel.StoreID { return q.storeID }

// GetUnfulfilledOrdersQueryResponse represents one order awaiting
// fulfillment.
type GetUnfulfilledOrdersQueryResponse struct {
	ID                kernel.ID
	Name              string
	FulfillmentStatus string
	Total             kernel.Money
}
