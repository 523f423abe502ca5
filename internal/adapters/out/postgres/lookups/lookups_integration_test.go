package lookups_test

import (
	"context"
	"testing"
	"time"

	"ordercore/internal/adapters/out/postgres/lookups"
	"ordercore/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type LookupsIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	inventory *lookups.GormInventoryLookup
	products  *lookups.GormProductLookup
	customers *lookups.GormCustomerLookup
}

func (suite *LookupsIntegrationTestSuite) SetupSuite() {
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
		&lookups.LocationDTO{},
		&lookups.InventoryLevelDTO{},
		&lookups.VariantDTO{},
		&lookups.CustomerDTO{},
	)
	suite.Require().NoError(err)

	suite.inventory = lookups.NewGormInventoryLookup(db)
	suite.products = lookups.NewGormProductLookup(db)
	suite.customers = lookups.NewGormCustomerLookup(db)
}

func (suite *LookupsIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *LookupsIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE locations, inventory_levels, product_variants, customers",
	).Error
	suite.Require().NoError(err)
}

func (suite *LookupsIntegrationTestSuite) TestStocksForVariants_OrdersLocationsByPriority() {
	suite.seedLocation(1, 2, true)
	suite.seedLocation(2, 1, true)
	suite.seedLevel(1, 100, 5)
	suite.seedLevel(2, 100, 3)

	stocks, err := suite.inventory.StocksForVariants(context.Background(),
		suite.storeID(), []kernel.ID{suite.id(100)})

	suite.Require().NoError(err)
	suite.Require().Len(stocks, 2)
	suite.Equal(int64(2), stocks[0].LocationID.Int64())
	suite.Equal(1, stocks[0].Priority)
	suite.Equal(3, stocks[0].Available[100])
	suite.Equal(int64(1), stocks[1].LocationID.Int64())
}

func (suite *LookupsIntegrationTestSuite) TestStocksForVariants_SkipsInactiveAndEmptyLocations() {
	suite.seedLocation(1, 1, false)
	suite.seedLocation(2, 2, true)
	suite.seedLocation(3, 3, true)
	suite.seedLevel(1, 100, 5)
	suite.seedLevel(2, 100, 0)
	suite.seedLevel(3, 100, 4)

	stocks, err := suite.inventory.StocksForVariants(context.Background(),
		suite.storeID(), []kernel.ID{suite.id(100)})

	suite.Require().NoError(err)
	suite.Require().Len(stocks, 1)
	suite.Equal(int64(3), stocks[0].LocationID.Int64())
}

func (suite *LookupsIntegrationTestSuite) TestStocksForVariants_NoVariants_ReturnsNil() {
	stocks, err := suite.inventory.StocksForVariants(context.Background(),
		suite.storeID(), nil)

	suite.Require().NoError(err)
	suite.Nil(stocks)
}

func (suite *LookupsIntegrationTestSuite) TestVariantsByIDs_ReturnsMetadataKeyedByVariant() {
	suite.seedVariant(100, 200, "Aeron Chair", "1395.00")
	suite.seedVariant(101, 200, "Aeron Chair - Graphite", "1445.00")

	variants, err := suite.products.VariantsByIDs(context.Background(),
		suite.storeID(), []kernel.ID{suite.id(100), suite.id(101), suite.id(999)})

	suite.Require().NoError(err)
	suite.Require().Len(variants, 2)
	suite.Equal("Aeron Chair", variants[100].Title)
	suite.Equal("1395.00 USD", variants[100].Price.String())
	suite.Equal(int64(200), variants[100].ProductID.Int64())
	suite.True(variants[101].Taxable)
}

func (suite *LookupsIntegrationTestSuite) TestVariantsByIDs_OtherStoreVariants_AreAbsent() {
	suite.db.Create(&lookups.VariantDTO{
		ID: 100, StoreID: 77, ProductID: 200, Title: "Foreign",
		Price:        decimal.RequireFromString("10.00"),
		CurrencyCode: "USD", CurrencyMinorUnits: 2,
	})

	variants, err := suite.products.VariantsByIDs(context.Background(),
		suite.storeID(), []kernel.ID{suite.id(100)})

	suite.Require().NoError(err)
	suite.Empty(variants)
}

func (suite *LookupsIntegrationTestSuite) TestCustomerExists() {
	suite.Require().NoError(suite.db.Create(&lookups.CustomerDTO{
		ID: 500, StoreID: 42, Email: "buyer@example.com",
	}).Error)

	exists, err := suite.customers.Exists(context.Background(), suite.storeID(), suite.id(500))
	suite.Require().NoError(err)
	suite.True(exists)

	exists, err = suite.customers.Exists(context.Background(), suite.storeID(), suite.id(501))
	suite.Require().NoError(err)
	suite.False(exists)

	otherStore, err := kernel.NewStoreID(77)
	suite.Require().NoError(err)
	exists, err = suite.customers.Exists(context.Background(), otherStore, suite.id(500))
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *LookupsIntegrationTestSuite) storeID() kernel.StoreID {
	sid, err := kernel.NewStoreID(42)
	suite.Require().NoError(err)
	return sid
}

func (suite *LookupsIntegrationTestSuite) id(value int64) kernel.ID {
	id, err := kernel.NewID(value)
	suite.Require().NoError(err)
	return id
}

func (suite *LookupsIntegrationTestSuite) seedLocation(id int64, priority int, active bool) {
	suite.Require().NoError(suite.db.Create(&lookups.LocationDTO{
		ID: id, StoreID: 42, Name: "Warehouse", Priority: priority, Active: active,
	}).Error)
}

func (suite *LookupsIntegrationTestSuite) seedLevel(locationID, variantID int64, available int) {
	suite.Require().NoError(suite.db.Create(&lookups.InventoryLevelDTO{
		LocationID: locationID, VariantID: variantID, StoreID: 42, Available: available,
	}).Error)
}

func (suite *LookupsIntegrationTestSuite) seedVariant(id, productID int64, title, price string) {
	suite.Require().NoError(suite.db.Create(&lookups.VariantDTO{
		ID: id, StoreID: 42, ProductID: productID, Title: title,
		Price:        decimal.RequireFromString(price),
		CurrencyCode: "USD", CurrencyMinorUnits: 2,
		Taxable: true, RequiresShipping: true,
	}).Error)
}

func TestLookupsIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LookupsIntegrationTestSuite))
}
