package queries

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads the order read model directly from the
// database. Write paths go through the aggregate; reads bypass it.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	result, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get order: %v", err)
//	    return err
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and returns the order header with its lines.
// Returns errs.ErrObjectNotFound when the store has no such order.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var header struct {
		ID                 int64
		Name               string
		Status             int
		FinancialStatus    int
		FulfillmentStatus  int
		CurrencyCode       string
		CurrencyMinorUnits int32
		TaxesIncluded      bool
		Total              string
		TotalTax           string
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			status,
			financial_status,
			fulfillment_status,
			currency_code,
			currency_minor_units,
			taxes_included,
			total,
			total_tax
		FROM orders
		WHERE store_id = ? AND id = ?
	`, query.StoreID().Int64(), query.OrderID().Int64()).Scan(&header)
	if result.Error != nil {
		return GetOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}

	currency, err := kernel.NewCurrency(header.CurrencyCode, header.CurrencyMinorUnits)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response := GetOrderQueryResponse{
		Name:              header.Name,
		Status:            order.Status(header.Status).String(),
		FinancialStatus:   order.FinancialStatus(header.FinancialStatus).String(),
		FulfillmentStatus: order.FulfillmentStatus(header.FulfillmentStatus).String(),
		TaxesIncluded:     header.TaxesIncluded,
	}
	if response.ID, err = kernel.NewID(header.ID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Total, err = kernel.MoneyFromString(header.Total, currency); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.TotalTax, err = kernel.MoneyFromString(header.TotalTax, currency); err != nil {
		return GetOrderQueryResponse{}, err
	}

	lines, err := h.readLines(ctx, query, currency)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.LineItems = lines

	return response, nil
}

func (h GetOrderQueryHandler) readLines(
	ctx context.Context,
	query GetOrderQuery,
	currency kernel.Currency,
) ([]GetOrderQueryLineResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			variant_id,
			product_id,
			title,
			quantity,
			price,
			fulfilled_quantity,
			refunded_quantity
		FROM order_line_items
		WHERE store_id = ? AND order_id = ?
		ORDER BY id
	`, query.StoreID().Int64(), query.OrderID().Int64()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]GetOrderQueryLineResponse, 0)
	for rows.Next() {
		var (
			id                int64
			variantID         *int64
			productID         *int64
			title             string
			quantity          int
			price             string
			fulfilledQuantity int
			refundedQuantity  int
		)
		if err = rows.Scan(&id, &variantID, &productID, &title,
			&quantity, &price, &fulfilledQuantity, &refundedQuantity); err != nil {
			return nil, err
		}

		line := GetOrderQueryLineResponse{
			Title:             title,
			Quantity:          quantity,
			FulfilledQuantity: fulfilledQuantity,
			RefundedQuantity:  refundedQuantity,
		}
		if line.ID, err = kernel.NewID(id); err != nil {
			return nil, err
		}
		if line.VariantID, err = optionalID(variantID); err != nil {
			return nil, err
		}
		if line.ProductID, err = optionalID(productID); err != nil {
			return nil, err
		}
		if line.Price, err = kernel.MoneyFromString(price, currency); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func optionalID(value *int64) (*kernel.ID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := kernel.NewID(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
