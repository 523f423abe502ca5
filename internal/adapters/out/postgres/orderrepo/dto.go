// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order aggregate, handling the conversion between domain entities and
// database representations.
package orderrepo

import (
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Identifiers come from the per-store id generation service, never from the
// database, so primary keys carry no auto-increment. Local identifiers repeat
// across stores; the store identifier is part of every primary key.
type OrderDTO struct {
	StoreID            int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                 int64 `gorm:"primaryKey;autoIncrement:false"`
	Name               string
	CurrencyCode       string
	CurrencyMinorUnits int32
	TaxesIncluded      bool
	Status             int `gorm:"index"`
	FinancialStatus    int
	FulfillmentStatus  int `gorm:"index"`
	CustomerID         *int64
	BillingAddressID   *int64
	ShippingAddressID  *int64
	Subtotal           decimal.Decimal `gorm:"type:numeric"`
	TotalDiscounts     decimal.Decimal `gorm:"type:numeric"`
	TotalShipping      decimal.Decimal `gorm:"type:numeric"`
	TotalTax           decimal.Decimal `gorm:"type:numeric"`
	Total              decimal.Decimal `gorm:"type:numeric"`
	Version            int64

	LineItems            []LineItemDTO            `gorm:"foreignKey:StoreID,OrderID;references:StoreID,ID"`
	ShippingLines        []ShippingLineDTO        `gorm:"foreignKey:StoreID,OrderID;references:StoreID,ID"`
	Transactions         []TransactionDTO         `gorm:"foreignKey:StoreID,OrderID;references:StoreID,ID"`
	DiscountApplications []DiscountApplicationDTO `gorm:"foreignKey:StoreID,OrderID;references:StoreID,ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO represents one purchasable line of an order. Tax lines and
// discount allocations are value collections owned by the line and are
// stored inline as JSON.
type LineItemDTO struct {
	StoreID             int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                  int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID             int64 `gorm:"index"`
	VariantID           *int64
	ProductID           *int64
	Title               string
	Quantity            int
	Price               decimal.Decimal `gorm:"type:numeric"`
	Taxable             bool
	RequiresShipping    bool
	FulfilledQuantity   int
	RefundedQuantity    int
	TaxLines            []TaxLineDTO            `gorm:"serializer:json;type:jsonb"`
	DiscountAllocations []DiscountAllocationDTO `gorm:"serializer:json;type:jsonb"`
}

// TableName specifies the database table name for order line items.
func (LineItemDTO) TableName() string {
	return "order_line_items"
}

// ShippingLineDTO represents one shipping charge of an order.
type ShippingLineDTO struct {
	StoreID  int64 `gorm:"primaryKey;autoIncrement:false"`
	ID       int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID  int64 `gorm:"index"`
	Title    string
	Price    decimal.Decimal `gorm:"type:numeric"`
	TaxLines []TaxLineDTO    `gorm:"serializer:json;type:jsonb"`
}

// TableName specifies the database table name for order shipping lines.
func (ShippingLineDTO) TableName() string {
	return "order_shipping_lines"
}

// TransactionDTO represents one entry of the order's payment ledger.
type TransactionDTO struct {
	StoreID             int64 `gorm:"primaryKey;autoIncrement:false"`
	ID                  int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID             int64 `gorm:"index"`
	Kind                int
	Status              int
	Amount              decimal.Decimal `gorm:"type:numeric"`
	Gateway             string
	ParentTransactionID *int64
}

// TableName specifies the database table name for order transactions.
func (TransactionDTO) TableName() string {
	return "order_transactions"
}

// DiscountApplicationDTO represents one discount definition on an order.
type DiscountApplicationDTO struct {
	StoreID int64 `gorm:"primaryKey;autoIncrement:false"`
	ID      int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID int64 `gorm:"index"`
	Kind    int
	Value   decimal.Decimal `gorm:"type:numeric"`
	Title   string
}

// TableName specifies the database table name for discount applications.
func (DiscountApplicationDTO) TableName() string {
	return "order_discount_applications"
}

// TaxLineDTO is the JSON shape of a tax line attached to an order line or
// shipping line.
type TaxLineDTO struct {
	Title string          `json:"title"`
	Rate  decimal.Decimal `json:"rate"`
	Price decimal.Decimal `json:"price"`
}

// DiscountAllocationDTO is the JSON shape of a discount portion applied to
// one order line.
type DiscountAllocationDTO struct {
	DiscountApplicationID int64           `json:"discount_application_id"`
	Amount                decimal.Decimal `json:"amount"`
}

// fromDomain converts an order domain aggregate to its database
// representation, flattening owned entities into their child tables.
func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                 o.ID().Int64(),
		StoreID:            o.StoreID().Int64(),
		Name:               o.Name(),
		CurrencyCode:       o.Currency().Code(),
		CurrencyMinorUnits: o.Currency().MinorUnits(),
		TaxesIncluded:      o.TaxesIncluded(),
		Status:             int(o.Status()),
		FinancialStatus:    int(o.FinancialStatus()),
		FulfillmentStatus:  int(o.FulfillmentStatus()),
		CustomerID:         idValue(o.CustomerID()),
		BillingAddressID:   idValue(o.BillingAddressID()),
		ShippingAddressID:  idValue(o.ShippingAddressID()),
		Subtotal:           o.Subtotal().Amount(),
		TotalDiscounts:     o.TotalDiscounts().Amount(),
		TotalShipping:      o.TotalShipping().Amount(),
		TotalTax:           o.TotalTax().Amount(),
		Total:              o.Total().Amount(),
		Version:            o.Version(),
	}

	for _, li := range o.LineItems() {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:                  li.ID().Int64(),
			OrderID:             dto.ID,
			StoreID:             dto.StoreID,
			VariantID:           idValue(li.VariantID()),
			ProductID:           idValue(li.ProductID()),
			Title:               li.Title(),
			Quantity:            li.Quantity(),
			Price:               li.Price().Amount(),
			Taxable:             li.Taxable(),
			RequiresShipping:    li.RequiresShipping(),
			FulfilledQuantity:   li.FulfilledQuantity(),
			RefundedQuantity:    li.RefundedQuantity(),
			TaxLines:            taxLinesFromDomain(li.TaxLines()),
			DiscountAllocations: allocationsFromDomain(li.DiscountAllocations()),
		})
	}
	for _, sl := range o.ShippingLines() {
		dto.ShippingLines = append(dto.ShippingLines, ShippingLineDTO{
			ID:       sl.ID().Int64(),
			OrderID:  dto.ID,
			StoreID:  dto.StoreID,
			Title:    sl.Title(),
			Price:    sl.Price().Amount(),
			TaxLines: taxLinesFromDomain(sl.TaxLines()),
		})
	}
	for _, tx := range o.Transactions() {
		dto.Transactions = append(dto.Transactions, TransactionDTO{
			ID:                  tx.ID().Int64(),
			OrderID:             dto.ID,
			StoreID:             dto.StoreID,
			Kind:                int(tx.Kind()),
			Status:              int(tx.Status()),
			Amount:              tx.Amount().Amount(),
			Gateway:             tx.Gateway(),
			ParentTransactionID: idValue(tx.ParentTransactionID()),
		})
	}
	for _, da := range o.DiscountApplications() {
		dto.DiscountApplications = append(dto.DiscountApplications, DiscountApplicationDTO{
			ID:      da.ID().Int64(),
			OrderID: dto.ID,
			StoreID: dto.StoreID,
			Kind:    int(da.Kind()),
			Value:   da.Value(),
			Title:   da.Title(),
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, re-deriving totals and statuses from the restored state.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.NewStoreID(dto.StoreID)
	if err != nil {
		return nil, err
	}
	currency, err := kernel.NewCurrency(dto.CurrencyCode, dto.CurrencyMinorUnits)
	if err != nil {
		return nil, err
	}

	lineItems := make([]*order.LineItem, 0, len(dto.LineItems))
	for _, li := range dto.LineItems {
		item, liErr := lineItemToDomain(li, currency)
		if liErr != nil {
			return nil, liErr
		}
		lineItems = append(lineItems, item)
	}

	shippingLines := make([]*order.ShippingLine, 0, len(dto.ShippingLines))
	for _, sl := range dto.ShippingLines {
		line, slErr := shippingLineToDomain(sl, currency)
		if slErr != nil {
			return nil, slErr
		}
		shippingLines = append(shippingLines, line)
	}

	transactions := make([]*order.Transaction, 0, len(dto.Transactions))
	for _, tx := range dto.Transactions {
		restored, txErr := transactionToDomain(tx, currency)
		if txErr != nil {
			return nil, txErr
		}
		transactions = append(transactions, restored)
	}

	applications := make([]order.DiscountApplication, 0, len(dto.DiscountApplications))
	for _, da := range dto.DiscountApplications {
		daID, daErr := kernel.NewID(da.ID)
		if daErr != nil {
			return nil, daErr
		}
		application, daErr := order.NewDiscountApplication(daID, order.DiscountKind(da.Kind), da.Value, da.Title)
		if daErr != nil {
			return nil, daErr
		}
		applications = append(applications, application)
	}

	customerID, err := idFromValue(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	billingAddressID, err := idFromValue(dto.BillingAddressID)
	if err != nil {
		return nil, err
	}
	shippingAddressID, err := idFromValue(dto.ShippingAddressID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		storeID,
		dto.Name,
		currency,
		dto.TaxesIncluded,
		order.Status(dto.Status),
		lineItems,
		shippingLines,
		applications,
		transactions,
		customerID, billingAddressID, shippingAddressID,
		dto.Version,
	)
}

func lineItemToDomain(dto LineItemDTO, currency kernel.Currency) (*order.LineItem, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	variantID, err := idFromValue(dto.VariantID)
	if err != nil {
		return nil, err
	}
	productID, err := idFromValue(dto.ProductID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price, currency)
	if err != nil {
		return nil, err
	}
	taxLines, err := taxLinesToDomain(dto.TaxLines, currency)
	if err != nil {
		return nil, err
	}
	allocations, err := allocationsToDomain(dto.DiscountAllocations, currency)
	if err != nil {
		return nil, err
	}

	return order.RestoreLineItem(
		id,
		variantID, productID,
		dto.Title,
		dto.Quantity,
		price,
		dto.Taxable, dto.RequiresShipping,
		dto.FulfilledQuantity, dto.RefundedQuantity,
		taxLines,
		allocations,
	)
}

func shippingLineToDomain(dto ShippingLineDTO, currency kernel.Currency) (*order.ShippingLine, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price, currency)
	if err != nil {
		return nil, err
	}
	taxLines, err := taxLinesToDomain(dto.TaxLines, currency)
	if err != nil {
		return nil, err
	}
	return order.RestoreShippingLine(id, dto.Title, price, taxLines)
}

func transactionToDomain(dto TransactionDTO, currency kernel.Currency) (*order.Transaction, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount, currency)
	if err != nil {
		return nil, err
	}
	parentID, err := idFromValue(dto.ParentTransactionID)
	if err != nil {
		return nil, err
	}
	return order.RestoreTransaction(
		id,
		order.TransactionKind(dto.Kind),
		order.TransactionStatus(dto.Status),
		amount,
		dto.Gateway,
		parentID,
	)
}

func taxLinesFromDomain(taxLines []order.TaxLine) []TaxLineDTO {
	if len(taxLines) == 0 {
		return nil
	}
	dtos := make([]TaxLineDTO, 0, len(taxLines))
	for _, tl := range taxLines {
		dtos = append(dtos, TaxLineDTO{
			Title: tl.Title(),
			Rate:  tl.Rate(),
			Price: tl.Price().Amount(),
		})
	}
	return dtos
}

func taxLinesToDomain(dtos []TaxLineDTO, currency kernel.Currency) ([]order.TaxLine, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	taxLines := make([]order.TaxLine, 0, len(dtos))
	for _, dto := range dtos {
		price, err := kernel.NewMoney(dto.Price, currency)
		if err != nil {
			return nil, err
		}
		taxLine, err := order.NewTaxLine(dto.Title, dto.Rate, price)
		if err != nil {
			return nil, err
		}
		taxLines = append(taxLines, taxLine)
	}
	return taxLines, nil
}

func allocationsFromDomain(allocations []order.DiscountAllocation) []DiscountAllocationDTO {
	if len(allocations) == 0 {
		return nil
	}
	dtos := make([]DiscountAllocationDTO, 0, len(allocations))
	for _, a := range allocations {
		dtos = append(dtos, DiscountAllocationDTO{
			DiscountApplicationID: a.DiscountApplicationID().Int64(),
			Amount:                a.Amount().Amount(),
		})
	}
	return dtos
}

func allocationsToDomain(dtos []DiscountAllocationDTO, currency kernel.Currency) ([]order.DiscountAllocation, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	allocations := make([]order.DiscountAllocation, 0, len(dtos))
	for _, dto := range dtos {
		applicationID, err := kernel.NewID(dto.DiscountApplicationID)
		if err != nil {
			return nil, err
		}
		amount, err := kernel.NewMoney(dto.Amount, currency)
		if err != nil {
			return nil, err
		}
		allocation, err := order.NewDiscountAllocation(applicationID, amount)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, allocation)
	}
	return allocations, nil
}

func idValue(id *kernel.ID) *int64 {
	if id == nil {
		return nil
	}
	value := id.Int64()
	return &value
}

func idFromValue(value *int64) (*kernel.ID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := kernel.NewID(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
