package http

import (
	"fmt"
	"strconv"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/application/usecases/queries"
	"ordercore/internal/core/domain/model/fulfillment"
	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/orderedit"
	"ordercore/internal/core/domain/model/refund"
	"ordercore/internal/core/domain/model/tax"
	"ordercore/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ErrorDTO is the body of every non-2xx response.
type ErrorDTO struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MoneyDTO carries a monetary amount with its currency on the wire.
type MoneyDTO struct {
	Amount             string `json:"amount"`
	CurrencyCode       string `json:"currency_code"`
	CurrencyMinorUnits int32  `json:"currency_minor_units"`
}

func newMoneyDTO(m kernel.Money) MoneyDTO {
	return MoneyDTO{
		Amount:             m.Amount().StringFixed(m.Currency().MinorUnits()),
		CurrencyCode:       m.Currency().Code(),
		CurrencyMinorUnits: m.Currency().MinorUnits(),
	}
}

func (d MoneyDTO) toMoney() (kernel.Money, error) {
	currency, err := kernel.NewCurrency(d.CurrencyCode, d.CurrencyMinorUnits)
	if err != nil {
		return kernel.Money{}, err
	}
	return kernel.MoneyFromString(d.Amount, currency)
}

// CreatedDTO reports the identifier of a freshly created resource.
type CreatedDTO struct {
	ID int64 `json:"id"`
}

type CreateOrderLineDTO struct {
	VariantID        *int64 `json:"variant_id,omitempty"`
	ProductID        *int64 `json:"product_id,omitempty"`
	Title            string `json:"title"`
	Quantity         int    `json:"quantity"`
	Price            string `json:"price"`
	Taxable          bool   `json:"taxable"`
	RequiresShipping bool   `json:"requires_shipping"`
}

type CreateOrderShippingLineDTO struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

// CreateOrderDTO is the request body for order creation. Line and shipping
// prices are amounts in the order currency.
type CreateOrderDTO struct {
	Name               string                       `json:"name"`
	CurrencyCode       string                       `json:"currency_code"`
	CurrencyMinorUnits int32                        `json:"currency_minor_units"`
	CustomerID         *int64                       `json:"customer_id,omitempty"`
	BillingAddressID   *int64                       `json:"billing_address_id,omitempty"`
	ShippingAddressID  *int64                       `json:"shipping_address_id,omitempty"`
	LineItems          []CreateOrderLineDTO         `json:"line_items"`
	ShippingLines      []CreateOrderShippingLineDTO `json:"shipping_lines,omitempty"`
}

func (d CreateOrderDTO) toCommand(storeID kernel.StoreID) (commands.CreateOrderCommand, error) {
	currency, err := kernel.NewCurrency(d.CurrencyCode, d.CurrencyMinorUnits)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lineItems := make([]commands.LineItemInput, 0, len(d.LineItems))
	for _, line := range d.LineItems {
		price, priceErr := kernel.MoneyFromString(line.Price, currency)
		if priceErr != nil {
			return commands.CreateOrderCommand{}, priceErr
		}
		variantID, idErr := optionalID(line.VariantID)
		if idErr != nil {
			return commands.CreateOrderCommand{}, idErr
		}
		productID, idErr := optionalID(line.ProductID)
		if idErr != nil {
			return commands.CreateOrderCommand{}, idErr
		}
		lineItems = append(lineItems, commands.LineItemInput{
			VariantID:        variantID,
			ProductID:        productID,
			Title:            line.Title,
			Quantity:         line.Quantity,
			Price:            price,
			Taxable:          line.Taxable,
			RequiresShipping: line.RequiresShipping,
		})
	}

	shippingLines := make([]commands.ShippingLineInput, 0, len(d.ShippingLines))
	for _, line := range d.ShippingLines {
		price, priceErr := kernel.MoneyFromString(line.Price, currency)
		if priceErr != nil {
			return commands.CreateOrderCommand{}, priceErr
		}
		shippingLines = append(shippingLines, commands.ShippingLineInput{
			Title: line.Title,
			Price: price,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(storeID, d.Name, currency, lineItems, shippingLines)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	if d.CustomerID != nil || d.BillingAddressID != nil || d.ShippingAddressID != nil {
		customerID, idErr := optionalID(d.CustomerID)
		if idErr != nil {
			return commands.CreateOrderCommand{}, idErr
		}
		billingAddressID, idErr := optionalID(d.BillingAddressID)
		if idErr != nil {
			return commands.CreateOrderCommand{}, idErr
		}
		shippingAddressID, idErr := optionalID(d.ShippingAddressID)
		if idErr != nil {
			return commands.CreateOrderCommand{}, idErr
		}
		cmd = cmd.WithCustomer(customerID, billingAddressID, shippingAddressID)
	}

	return cmd, nil
}

type DestinationDTO struct {
	Name         string `json:"name"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city"`
	ProvinceCode string `json:"province_code,omitempty"`
	CountryCode  string `json:"country_code"`
	Zip          string `json:"zip"`
	Phone        string `json:"phone,omitempty"`
}

// RouteOrderDTO is the request body for routing an order to fulfillment
// locations.
type RouteOrderDTO struct {
	Policy         string         `json:"policy"`
	DeliveryMethod string         `json:"delivery_method"`
	Destination    DestinationDTO `json:"destination"`
}

func (d RouteOrderDTO) toCommand(storeID kernel.StoreID, orderID kernel.ID) (commands.RouteOrderCommand, error) {
	policy, err := parseRoutingPolicy(d.Policy)
	if err != nil {
		return commands.RouteOrderCommand{}, err
	}
	deliveryMethod, err := parseDeliveryMethod(d.DeliveryMethod)
	if err != nil {
		return commands.RouteOrderCommand{}, err
	}

	destination := fulfillmentorder.NewDestination(
		d.Destination.Name,
		d.Destination.Address1,
		d.Destination.Address2,
		d.Destination.City,
		d.Destination.ProvinceCode,
		d.Destination.CountryCode,
		d.Destination.Zip,
		d.Destination.Phone,
	)

	return commands.NewRouteOrderCommand(storeID, orderID, policy, deliveryMethod, destination)
}

type UnroutableLineDTO struct {
	OrderLineItemID int64  `json:"order_line_item_id"`
	VariantID       *int64 `json:"variant_id,omitempty"`
	Quantity        int    `json:"quantity"`
}

// RouteOrderResultDTO reports the created fulfillment orders and the lines
// no location could cover.
type RouteOrderResultDTO struct {
	FulfillmentOrderIDs []int64             `json:"fulfillment_order_ids"`
	Unfulfillable       []UnroutableLineDTO `json:"unfulfillable"`
}

func newRouteOrderResultDTO(result commands.RouteOrderResult) RouteOrderResultDTO {
	ids := make([]int64, 0, len(result.FulfillmentOrderIDs))
	for _, id := range result.FulfillmentOrderIDs {
		ids = append(ids, id.Int64())
	}

	unfulfillable := make([]UnroutableLineDTO, 0, len(result.Unfulfillable))
	for _, line := range result.Unfulfillable {
		dto := UnroutableLineDTO{
			OrderLineItemID: line.OrderLineItemID.Int64(),
			Quantity:        line.Quantity,
		}
		if line.VariantID != nil {
			variantID := line.VariantID.Int64()
			dto.VariantID = &variantID
		}
		unfulfillable = append(unfulfillable, dto)
	}

	return RouteOrderResultDTO{FulfillmentOrderIDs: ids, Unfulfillable: unfulfillable}
}

type FulfillmentLineDTO struct {
	OrderLineItemID int64 `json:"order_line_item_id"`
	Quantity        int   `json:"quantity"`
}

type TrackingInfoDTO struct {
	Company string `json:"company,omitempty"`
	Number  string `json:"number,omitempty"`
	URL     string `json:"url,omitempty"`
}

// RecordFulfillmentDTO is the request body a location sends when it reports
// shipped units. The idempotency key may also arrive in the Idempotency-Key
// header, which takes precedence.
type RecordFulfillmentDTO struct {
	Lines          []FulfillmentLineDTO `json:"lines"`
	Tracking       TrackingInfoDTO      `json:"tracking"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
}

func (d RecordFulfillmentDTO) toCommand(
	storeID kernel.StoreID,
	fulfillmentOrderID kernel.ID,
	idempotencyKey string,
) (commands.RecordFulfillmentCommand, error) {
	lines := make([]commands.FulfillmentLineInput, 0, len(d.Lines))
	for _, line := range d.Lines {
		lineItemID, err := kernel.NewID(line.OrderLineItemID)
		if err != nil {
			return commands.RecordFulfillmentCommand{}, err
		}
		lines = append(lines, commands.FulfillmentLineInput{
			OrderLineItemID: lineItemID,
			Quantity:        line.Quantity,
		})
	}

	tracking := fulfillment.NewTrackingInfo(d.Tracking.Company, d.Tracking.Number, d.Tracking.URL)

	return commands.NewRecordFulfillmentCommand(storeID, fulfillmentOrderID, lines, tracking, idempotencyKey)
}

// EditChangeDTO is the request body for staging one edit change. Kind picks
// the change type; only the fields of that kind are read.
type EditChangeDTO struct {
	Kind string `json:"kind"`

	// add_variant
	VariantID      *int64 `json:"variant_id,omitempty"`
	LocationID     *int64 `json:"location_id,omitempty"`
	AllowDuplicate bool   `json:"allow_duplicate,omitempty"`

	// add_custom_item
	Title            string    `json:"title,omitempty"`
	Price            *MoneyDTO `json:"price,omitempty"`
	Taxable          bool      `json:"taxable,omitempty"`
	RequiresShipping bool      `json:"requires_shipping,omitempty"`

	// set_item_quantity / set_item_discount
	LineItemID   *int64  `json:"line_item_id,omitempty"`
	Restock      bool    `json:"restock,omitempty"`
	FixedValue   *string `json:"fixed_value,omitempty"`
	PercentValue *string `json:"percent_value,omitempty"`

	// add_variant, add_custom_item and set_item_quantity
	Quantity int `json:"quantity,omitempty"`
}

func (d EditChangeDTO) toChange() (*orderedit.Change, error) {
	switch d.Kind {
	case "add_variant":
		if d.VariantID == nil {
			return nil, fmt.Errorf("variant_id is required for %s changes", d.Kind)
		}
		variantID, err := kernel.NewID(*d.VariantID)
		if err != nil {
			return nil, err
		}
		locationID, err := optionalID(d.LocationID)
		if err != nil {
			return nil, err
		}
		return orderedit.NewAddVariantChange(variantID, d.Quantity, locationID, d.AllowDuplicate)

	case "add_custom_item":
		if d.Price == nil {
			return nil, fmt.Errorf("price is required for %s changes", d.Kind)
		}
		price, err := d.Price.toMoney()
		if err != nil {
			return nil, err
		}
		return orderedit.NewAddCustomItemChange(d.Title, price, d.Quantity, d.Taxable, d.RequiresShipping)

	case "set_item_quantity":
		if d.LineItemID == nil {
			return nil, fmt.Errorf("line_item_id is required for %s changes", d.Kind)
		}
		lineItemID, err := kernel.NewID(*d.LineItemID)
		if err != nil {
			return nil, err
		}
		return orderedit.NewSetItemQuantityChange(lineItemID, d.Quantity, d.Restock)

	case "set_item_discount":
		if d.LineItemID == nil {
			return nil, fmt.Errorf("line_item_id is required for %s changes", d.Kind)
		}
		lineItemID, err := kernel.NewID(*d.LineItemID)
		if err != nil {
			return nil, err
		}
		fixedValue, err := optionalDecimal(d.FixedValue)
		if err != nil {
			return nil, err
		}
		percentValue, err := optionalDecimal(d.PercentValue)
		if err != nil {
			return nil, err
		}
		return orderedit.NewSetItemDiscountChange(lineItemID, d.Title, fixedValue, percentValue)

	default:
		return nil, fmt.Errorf("unknown change kind %q", d.Kind)
	}
}

type RefundLineDTO struct {
	OrderLineItemID int64  `json:"order_line_item_id"`
	Quantity        int    `json:"quantity"`
	RestockType     string `json:"restock_type"`
	LocationID      *int64 `json:"location_id,omitempty"`
}

// CreateRefundDTO is the request body for refunding parts of an order.
type CreateRefundDTO struct {
	Note           string          `json:"note,omitempty"`
	Gateway        string          `json:"gateway"`
	RefundShipping bool            `json:"refund_shipping,omitempty"`
	ShippingAmount *MoneyDTO       `json:"shipping_amount,omitempty"`
	Lines          []RefundLineDTO `json:"lines,omitempty"`
}

func (d CreateRefundDTO) toCommand(storeID kernel.StoreID, orderID kernel.ID) (commands.CreateRefundCommand, error) {
	lines := make([]commands.RefundLineInput, 0, len(d.Lines))
	for _, line := range d.Lines {
		lineItemID, err := kernel.NewID(line.OrderLineItemID)
		if err != nil {
			return commands.CreateRefundCommand{}, err
		}
		restockType, err := parseRestockType(line.RestockType)
		if err != nil {
			return commands.CreateRefundCommand{}, err
		}
		locationID, err := optionalID(line.LocationID)
		if err != nil {
			return commands.CreateRefundCommand{}, err
		}
		lines = append(lines, commands.RefundLineInput{
			OrderLineItemID: lineItemID,
			Quantity:        line.Quantity,
			RestockType:     restockType,
			LocationID:      locationID,
		})
	}

	var shippingAmount *kernel.Money
	if d.ShippingAmount != nil {
		amount, err := d.ShippingAmount.toMoney()
		if err != nil {
			return commands.CreateRefundCommand{}, err
		}
		shippingAmount = &amount
	}

	return commands.NewCreateRefundCommand(
		storeID, orderID, d.Note, lines, d.RefundShipping, shippingAmount, d.Gateway)
}

// CancelOrderDTO is the request body for cancelling an order.
type CancelOrderDTO struct {
	Reason string `json:"reason"`
}

type TaxValueDTO struct {
	ProductID *int64 `json:"product_id,omitempty"`
	ValueType string `json:"value_type"`
	Rate      string `json:"rate"`
	Title     string `json:"title"`
}

// UpsertTaxSettingDTO is the request body that replaces a store's tax
// configuration wholesale.
type UpsertTaxSettingDTO struct {
	TaxesIncluded bool          `json:"taxes_included"`
	TaxShipping   bool          `json:"tax_shipping"`
	Active        bool          `json:"active"`
	Values        []TaxValueDTO `json:"values"`
}

func (d UpsertTaxSettingDTO) toCommand(storeID kernel.StoreID) (commands.UpsertTaxSettingCommand, error) {
	values := make([]commands.TaxValueInput, 0, len(d.Values))
	for _, value := range d.Values {
		productID, err := optionalID(value.ProductID)
		if err != nil {
			return commands.UpsertTaxSettingCommand{}, err
		}
		valueType, err := parseTaxValueType(value.ValueType)
		if err != nil {
			return commands.UpsertTaxSettingCommand{}, err
		}
		rate, err := decimal.NewFromString(value.Rate)
		if err != nil {
			return commands.UpsertTaxSettingCommand{}, err
		}
		values = append(values, commands.TaxValueInput{
			ProductID: productID,
			ValueType: valueType,
			Rate:      rate,
			Title:     value.Title,
		})
	}

	return commands.NewUpsertTaxSettingCommand(storeID, d.TaxesIncluded, d.TaxShipping, d.Active, values)
}

type OrderLineDTO struct {
	ID                int64    `json:"id"`
	VariantID         *int64   `json:"variant_id,omitempty"`
	ProductID         *int64   `json:"product_id,omitempty"`
	Title             string   `json:"title"`
	Quantity          int      `json:"quantity"`
	Price             MoneyDTO `json:"price"`
	FulfilledQuantity int      `json:"fulfilled_quantity"`
	RefundedQuantity  int      `json:"refunded_quantity"`
}

// OrderDTO is the read model of a single order.
type OrderDTO struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Status            string         `json:"status"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	TaxesIncluded     bool           `json:"taxes_included"`
	Total             MoneyDTO       `json:"total"`
	TotalTax          MoneyDTO       `json:"total_tax"`
	LineItems         []OrderLineDTO `json:"line_items"`
}

func newOrderDTO(response queries.GetOrderQueryResponse) OrderDTO {
	lineItems := make([]OrderLineDTO, 0, len(response.LineItems))
	for _, line := range response.LineItems {
		dto := OrderLineDTO{
			ID:                line.ID.Int64(),
			Title:             line.Title,
			Quantity:          line.Quantity,
			Price:             newMoneyDTO(line.Price),
			FulfilledQuantity: line.FulfilledQuantity,
			RefundedQuantity:  line.RefundedQuantity,
		}
		if line.VariantID != nil {
			variantID := line.VariantID.Int64()
			dto.VariantID = &variantID
		}
		if line.ProductID != nil {
			productID := line.ProductID.Int64()
			dto.ProductID = &productID
		}
		lineItems = append(lineItems, dto)
	}

	return OrderDTO{
		ID:                response.ID.Int64(),
		Name:              response.Name,
		Status:            response.Status,
		FinancialStatus:   response.FinancialStatus,
		FulfillmentStatus: response.FulfillmentStatus,
		TaxesIncluded:     response.TaxesIncluded,
		Total:             newMoneyDTO(response.Total),
		TotalTax:          newMoneyDTO(response.TotalTax),
		LineItems:         lineItems,
	}
}

// OrderSummaryDTO is one row of the unfulfilled orders listing.
type OrderSummaryDTO struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	FulfillmentStatus string   `json:"fulfillment_status"`
	Total             MoneyDTO `json:"total"`
}

func newOrderSummaryDTOs(responses []queries.GetUnfulfilledOrdersQueryResponse) []OrderSummaryDTO {
	summaries := make([]OrderSummaryDTO, 0, len(responses))
	for _, response := range responses {
		summaries = append(summaries, OrderSummaryDTO{
			ID:                response.ID.Int64(),
			Name:              response.Name,
			FulfillmentStatus: response.FulfillmentStatus,
			Total:             newMoneyDTO(response.Total),
		})
	}
	return summaries
}

func parseStoreID(ctx echo.Context) (kernel.StoreID, error) {
	value, err := strconv.ParseInt(ctx.Param("storeId"), 10, 64)
	if err != nil {
		return kernel.StoreID{}, fmt.Errorf("storeId must be an integer: %w", err)
	}
	return kernel.NewStoreID(value)
}

func parsePathID(ctx echo.Context, name string) (kernel.ID, error) {
	value, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		return kernel.ID{}, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return kernel.NewID(value)
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

func optionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseRoutingPolicy(value string) (services.RoutingPolicy, error) {
	switch value {
	case "minimize_locations":
		return services.RoutingPolicyMinimizeLocations, nil
	case "single_location_only":
		return services.RoutingPolicySingleLocationOnly, nil
	default:
		return 0, fmt.Errorf("unknown routing policy %q", value)
	}
}

func parseDeliveryMethod(value string) (fulfillmentorder.ExpectedDeliveryMethod, error) {
	switch value {
	case "shipping":
		return fulfillmentorder.ExpectedDeliveryMethodShipping, nil
	case "pickup":
		return fulfillmentorder.ExpectedDeliveryMethodPickup, nil
	default:
		return 0, fmt.Errorf("unknown delivery method %q", value)
	}
}

func parseRestockType(value string) (refund.RestockType, error) {
	switch value {
	case "no_restock":
		return refund.RestockTypeNoRestock, nil
	case "cancel":
		return refund.RestockTypeCancel, nil
	case "return":
		return refund.RestockTypeReturn, nil
	default:
		return 0, fmt.Errorf("unknown restock type %q", value)
	}
}

func parseTaxValueType(value string) (tax.ValueType, error) {
	switch value {
	case "line_item":
		return tax.ValueTypeLineItem, nil
	case "shipping":
		return tax.ValueTypeShipping, nil
	default:
		return 0, fmt.Errorf("unknown tax value type %q", value)
	}
}
