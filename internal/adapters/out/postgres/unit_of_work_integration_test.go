package postgres_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "ordercore/internal/adapters/out/postgres"
	"ordercore/internal/adapters/out/postgres/idgen"
	"ordercore/internal/adapters/out/postgres/orderrepo"
	"ordercore/internal/adapters/out/postgres/outbox"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based unit of work: transaction control, outbox staging of tracked
// aggregate events, and transactional identifier allocation.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
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
		&outbox.MessageDTO{},
		&idgen.CounterDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE orders, order_line_items,
		order_shipping_lines, order_transactions, order_discount_applications,
		outbox_messages, id_counters`).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesIsolatedInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.FulfillmentOrderRepository())
	suite.NotNil(uow1.RefundRepository())
	suite.NotNil(uow2.TaxSettingRepository())
	suite.NotNil(uow2.IDGenerator())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "repeated Begin on an open transaction is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionErrors_WithoutBegin() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_StagesTrackedEventsIntoOutbox() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder(1)
	suite.Require().Len(testOrder.PendingEvents(), 1)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	uow.Track(testOrder)
	suite.Require().NoError(uow.Commit(ctx))

	// The event is durable in the same transaction as the order row.
	var messages []outbox.MessageDTO
	suite.Require().NoError(suite.db.Find(&messages).Error)
	suite.Require().Len(messages, 1)
	suite.Equal(order.EventOrderCreated, messages[0].Name)
	suite.Equal(int64(42), messages[0].StoreID)
	suite.Equal(testOrder.ID().Int64(), messages[0].OrderID)
	suite.NotEmpty(messages[0].Payload)
	suite.Nil(messages[0].PublishedAt)

	// The aggregate buffer is drained only after the durable commit.
	suite.Empty(testOrder.PendingEvents())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsStateAndKeepsEvents() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder(1)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	uow.Track(testOrder)
	suite.Require().NoError(uow.Rollback(ctx))

	var orderCount, messageCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&outbox.MessageDTO{}).Count(&messageCount).Error)
	suite.Zero(orderCount)
	suite.Zero(messageCount)

	// Failed operations keep their events on the aggregate.
	suite.Len(testOrder.PendingEvents(), 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutTrackedAggregates_StagesNothing() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder(1)
	testOrder.ClearPendingEvents()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	var messageCount int64
	suite.Require().NoError(suite.db.Model(&outbox.MessageDTO{}).Count(&messageCount).Error)
	suite.Zero(messageCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionIsolation_BetweenInstances() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := suite.createTestOrder(1)
	order2 := suite.createTestOrder(2)
	storeID := suite.storeID()

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, storeID, order1.ID())
	suite.Require().NoError(err, "uow1 sees its own insert")
	_, err = uow1.OrderRepository().Get(ctx, storeID, order2.ID())
	suite.Require().Error(err, "uow1 must not see uow2's uncommitted insert")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	verifier := suite.factory.Create()
	_, err = verifier.OrderRepository().Get(ctx, storeID, order1.ID())
	suite.Require().NoError(err)
	_, err = verifier.OrderRepository().Get(ctx, storeID, order2.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIDGenerator_AllocatesContiguousRangesPerStore() {
	ctx := context.Background()
	storeID := suite.storeID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	batch, err := uow.IDGenerator().Allocate(ctx, storeID, map[ports.IDKind]int{
		ports.IDKindOrder:    1,
		ports.IDKindLineItem: 3,
	})
	suite.Require().NoError(err)

	orderID, err := batch.Next(ports.IDKindOrder)
	suite.Require().NoError(err)
	suite.Equal(int64(1), orderID.Int64())

	lineIDs, err := batch.Take(ports.IDKindLineItem, 3)
	suite.Require().NoError(err)
	suite.Equal(int64(1), lineIDs[0].Int64())
	suite.Equal(int64(3), lineIDs[2].Int64())
	suite.Zero(batch.Remaining(ports.IDKindLineItem))

	suite.Require().NoError(uow.Commit(ctx))

	// A second allocation continues where the committed one stopped.
	second := suite.factory.Create()
	suite.Require().NoError(second.Begin(ctx))
	batch, err = second.IDGenerator().Allocate(ctx, storeID, map[ports.IDKind]int{
		ports.IDKindOrder: 2,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(second.Commit(ctx))

	ids, err := batch.Take(ports.IDKindOrder, 2)
	suite.Require().NoError(err)
	suite.Equal(int64(2), ids[0].Int64())
	suite.Equal(int64(3), ids[1].Int64())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIDGenerator_CountersAreIndependentPerStore() {
	ctx := context.Background()

	otherStore, err := kernel.NewStoreID(77)
	suite.Require().NoError(err)

	for _, store := range []kernel.StoreID{suite.storeID(), otherStore} {
		uow := suite.factory.Create()
		suite.Require().NoError(uow.Begin(ctx))
		batch, allocErr := uow.IDGenerator().Allocate(ctx, store, map[ports.IDKind]int{
			ports.IDKindOrder: 1,
		})
		suite.Require().NoError(allocErr)
		suite.Require().NoError(uow.Commit(ctx))

		id, nextErr := batch.Next(ports.IDKindOrder)
		suite.Require().NoError(nextErr)
		suite.Equal(int64(1), id.Int64(), "each store starts its own sequence at 1")
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIDGenerator_RollbackReturnsTheRange() {
	ctx := context.Background()
	storeID := suite.storeID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	_, err := uow.IDGenerator().Allocate(ctx, storeID, map[ports.IDKind]int{
		ports.IDKindOrder: 5,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Rollback(ctx))

	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	batch, err := uow.IDGenerator().Allocate(ctx, storeID, map[ports.IDKind]int{
		ports.IDKindOrder: 1,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Commit(ctx))

	id, err := batch.Next(ports.IDKindOrder)
	suite.Require().NoError(err)
	suite.Equal(int64(1), id.Int64(), "rolled back allocation must not burn the range")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOutboxRepository_UnpublishedFlow() {
	ctx := context.Background()

	for seq := int64(1); seq <= 2; seq++ {
		uow := suite.factory.Create()
		testOrder := suite.createTestOrder(seq)
		suite.Require().NoError(uow.Begin(ctx))
		suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
		uow.Track(testOrder)
		suite.Require().NoError(uow.Commit(ctx))
	}

	repo := outbox.NewGormOutboxRepository(suite.db)

	messages, err := repo.GetUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(messages, 2)

	err = repo.MarkPublished(ctx, []uuid.UUID{messages[0].ID})
	suite.Require().NoError(err)

	remaining, err := repo.GetUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(remaining, 1)
	suite.Equal(messages[1].ID, remaining[0].ID)
}

func (suite *UnitOfWorkIntegrationTestSuite) storeID() kernel.StoreID {
	sid, err := kernel.NewStoreID(42)
	suite.Require().NoError(err)
	return sid
}

func (suite *UnitOfWorkIntegrationTestSuite) id(value int64) kernel.ID {
	id, err := kernel.NewID(value)
	suite.Require().NoError(err)
	return id
}

// createTestOrder builds an identified order with one line item. The
// creation event stays pending so outbox staging can be observed.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder(seq int64) *order.Order {
	currency, err := kernel.NewCurrency("USD", 2)
	suite.Require().NoError(err)
	price, err := kernel.MoneyFromString("100.00", currency)
	suite.Require().NoError(err)

	li, err := order.NewLineItem(suite.id(100), suite.id(200), "Aeron Chair", 5, price, true, true)
	suite.Require().NoError(err)

	o, err := order.NewOrder(suite.storeID(), "#1001", currency, false,
		[]*order.LineItem{li}, nil)
	suite.Require().NoError(err)

	err = o.AssignIdentifiers(suite.id(seq), []kernel.ID{suite.id(seq*100 + 11)}, nil, nil)
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
