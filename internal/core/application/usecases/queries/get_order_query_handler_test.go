package queries_test

import (
	"context"
	"testing"
	"time"

	"ordercore/internal/adapters/out/postgres/orderrepo"
	"ordercore/internal/core/application/usecases/queries"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrderQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetOrderQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.ShippingLineDTO{},
		&orderrepo.TransactionDTO{},
		&orderrepo.DiscountApplicationDTO{},
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetOrderQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db)
}

func (suite *GetOrderQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetOrderQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_line_items CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ExistingOrder_ReturnsHeaderAndLines() {
	ctx := context.Background()
	seeded := suite.seedOrder(1, "#1001")

	query, err := queries.NewGetOrderQuery(suite.storeID(), seeded.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(seeded.ID(), result.ID)
	suite.Equal("#1001", result.Name)
	suite.Equal("open", result.Status)
	suite.Equal("pending", result.FinancialStatus)
	suite.Equal("unfulfilled", result.FulfillmentStatus)
	suite.False(result.TaxesIncluded)
	suite.Equal("500.00 USD", result.Total.String())

	suite.Require().Len(result.LineItems, 1)
	line := result.LineItems[0]
	suite.Equal("Aeron Chair", line.Title)
	suite.Equal(5, line.Quantity)
	suite.Equal("100.00 USD", line.Price.String())
	suite.Require().NotNil(line.VariantID)
	suite.Equal(int64(100), line.VariantID.Int64())
	suite.Require().NotNil(line.ProductID)
	suite.Equal(int64(200), line.ProductID.Int64())
	suite.Zero(line.FulfilledQuantity)
	suite.Zero(line.RefundedQuantity)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_FulfilledQuantitiesAreReflected() {
	ctx := context.Background()
	seeded := suite.seedOrder(1, "#1001")

	loaded, err := suite.orderRepo.Get(ctx, suite.storeID(), seeded.ID())
	suite.Require().NoError(err)
	err = loaded.RecordFulfillment(suite.id(500), []order.FulfillmentQuantity{
		{LineItemID: loaded.LineItems()[0].ID(), Quantity: 2},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Update(ctx, loaded))

	query, err := queries.NewGetOrderQuery(suite.storeID(), seeded.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal("partially_fulfilled", result.FulfillmentStatus)
	suite.Require().Len(result.LineItems, 1)
	suite.Equal(2, result.LineItems[0].FulfilledQuantity)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_NonExistentOrder_ReturnsNotFoundError() {
	query, err := queries.NewGetOrderQuery(suite.storeID(), suite.id(999))
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_OtherStore_ReturnsNotFoundError() {
	seeded := suite.seedOrder(1, "#1001")

	otherStore, err := kernel.NewStoreID(77)
	suite.Require().NoError(err)
	query, err := queries.NewGetOrderQuery(otherStore, seeded.ID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetOrderQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.ErrorIs(err, queries.ErrGetOrderQueryIsNotConstructed)
}

func (suite *GetOrderQueryHandlerTestSuite) storeID() kernel.StoreID {
	sid, err := kernel.NewStoreID(42)
	suite.Require().NoError(err)
	return sid
}

func (suite *GetOrderQueryHandlerTestSuite) id(value int64) kernel.ID {
	id, err := kernel.NewID(value)
	suite.Require().NoError(err)
	return id
}

// seedOrder persists an identified order with one variant line through the
// write-side repository.
func (suite *GetOrderQueryHandlerTestSuite) seedOrder(seq int64, name string) *order.Order {
	currency, err := kernel.NewCurrency("USD", 2)
	suite.Require().NoError(err)
	price, err := kernel.MoneyFromString("100.00", currency)
	suite.Require().NoError(err)

	li, err := order.NewLineItem(suite.id(100), suite.id(200), "Aeron Chair", 5, price, true, true)
	suite.Require().NoError(err)

	o, err := order.NewOrder(suite.storeID(), name, currency, false,
		[]*order.LineItem{li}, nil)
	suite.Require().NoError(err)

	err = o.AssignIdentifiers(suite.id(seq), []kernel.ID{suite.id(seq*100 + 11)}, nil, nil)
	suite.Require().NoError(err)
	o.ClearPendingEvents()

	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}
