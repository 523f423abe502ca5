package queries

import (
	"context"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetUnfulfilledOrdersQueryHandler retrieves unfulfilled open orders from
// the database. Cancelled and closed orders never show up here even when
// units remain unshipped.
type GetUnfulfilledOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnfulfilledOrdersQueryHandler creates a handler for unfulfilled
// order queries. Requires a GORM database connection for query execution.
func NewGetUnfulfilledOrdersQueryHandler(db *gorm.DB) GetUnfulfilledOrdersQueryHandler {
	return GetUnfulfilledOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all open orders of the store that
// are not yet fully fulfilled. Results are sorted by order ID for
// consistent output.
func (h GetUnfulfilledOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnfulfilledOrdersQuery,
) ([]GetUnfulfilledOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			fulfillment_status,
			currency_code,
			currency_minor_units,
			total
		FROM orders
		WHERE store_id = ? AND status = ? AND fulfillment_status != ?
		ORDER BY id
	`, query.StoreID().Int64(), order.StatusOpen, order.FulfillmentStatusFulfilled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetUnfulfilledOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			id                 int64
			name               string
			fulfillmentStatus  int
			currencyCode       string
			currencyMinorUnits int32
			total              string
		)
		if err = rows.Scan(&id, &name, &fulfillmentStatus,
			&currencyCode, &currencyMinorUnits, &total); err != nil {
			return nil, err
		}

		currency, curErr := kernel.NewCurrency(currencyCode, currencyMinorUnits)
		if curErr != nil {
			return nil, curErr
		}

		response := GetUnfulfilledOrdersQueryResponse{
			Name:              name,
			FulfillmentStatus: order.FulfillmentStatus(fulfillmentStatus).String(),
		}
		if response.ID, err = kernel.NewID(id); err != nil {
			return nil, err
		}
		if response.Total, err = kernel.MoneyFromString(total, currency); err != nil {
			return nil, err
		}
		orders = append(orders, response)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
