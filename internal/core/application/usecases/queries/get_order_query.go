package queries

import (
	"errors"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves a single order read model, scoped to a store.
//
// Example:
//
//	query, err := NewGetOrderQuery(storeID, orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetOrderQueryHandler(db)
//
//	result, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//
//	fmt.Printf("Order %s: %s, %d lines\n", result.Name, result.Status, len(result.LineItems))
type GetOrderQuery struct {
	guard guard.ConstructorGuard

	storeID kernel.StoreID
	orderID kernel.ID
}

// NewGetOrderQuery creates a query for one order of one store.
func NewGetOrderQuery(storeID kernel.StoreID, orderID kernel.ID) (GetOrderQuery, error) {
	if err := errors.Join(storeID.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		guard:   guard.NewConstructorGuard(),
		storeID: storeID,
		orderID: orderID,
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) StoreID() kernel.StoreID { return q.storeID }

func (q GetOrderQuery) OrderID() kernel.ID { return q.orderID }

// GetOrderQueryResponse is the order header plus its lines, read straight
// from the store without rehydrating the aggregate.
type GetOrderQueryResponse struct {
	ID                kernel.ID
	Name              string
	Status            string
	FinancialStatus   string
	FulfillmentStatus string
	TaxesIncluded     bool
	Total             kernel.Money
	TotalTax          kernel.Money
	LineItems         []GetOrderQueryLineResponse
}

// GetOrderQueryLineResponse represents one order line in the read model.
type GetOrderQueryLineResponse struct {
	ID                kernel.ID
	VariantID         *kernel.ID
	ProductID         *kernel.ID
	Title             string
	Quantity          int
	Price             kernel.Money
	FulfilledQuantity int
	RefundedQuantity  int
}
