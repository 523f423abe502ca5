package cmd

import (
	"fmt"
	"log/slog"

	httpserver "ordercore/internal/adapters/in/http"
	"ordercore/internal/adapters/out/kafkabus"
	"ordercore/internal/adapters/out/postgres"
	"ordercore/internal/adapters/out/postgres/editrepo"
	"ordercore/internal/adapters/out/postgres/fulfillmentorderrepo"
	"ordercore/internal/adapters/out/postgres/fulfillmentrepo"
	"ordercore/internal/adapters/out/postgres/idgen"
	"ordercore/internal/adapters/out/postgres/lookups"
	"ordercore/internal/adapters/out/postgres/orderrepo"
	"ordercore/internal/adapters/out/postgres/outbox"
	"ordercore/internal/adapters/out/postgres/refundrepo"
	"ordercore/internal/adapters/out/postgres/taxrepo"
	"ordercore/internal/adapters/out/redisstore"
	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/application/usecases/queries"
	"ordercore/internal/jobs"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use cases. One instance lives for the
// process lifetime; Close releases the broker and Redis connections.
type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	kafkaWriter *kafka.Writer
	redisStore  *redisstore.RedisIdempotencyStore
	config      Config
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		kafkaWriter: kafkabus.NewWriter([]string{config.KafkaHost}, config.KafkaEventTopic),
		redisStore: redisstore.NewRedisIdempotencyStore(
			redisstore.NewClient(config.RedisAddr, config.RedisPassword, config.RedisDB),
			config.IdempotencyPendingTTL,
			config.IdempotencyDoneTTL,
		),
		config: config,
	}
}

// Close releases externally held connections.
func (c *CompositionRoot) Close() error {
	if err := c.kafkaWriter.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return c.redisStore.Close()
}

// MigrateDatabase creates or updates every table the service owns, plus the
// projection tables the lookups read in local setups.
func (c *CompositionRoot) MigrateDatabase() error {
	return c.gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.ShippingLineDTO{},
		&orderrepo.TransactionDTO{},
		&orderrepo.DiscountApplicationDTO{},
		&fulfillmentorderrepo.FulfillmentOrderDTO{},
		&fulfillmentorderrepo.LineItemDTO{},
		&fulfillmentrepo.FulfillmentDTO{},
		&fulfillmentrepo.LineDTO{},
		&editrepo.OrderEditDTO{},
		&editrepo.ChangeDTO{},
		&refundrepo.RefundDTO{},
		&refundrepo.LineItemDTO{},
		&taxrepo.TaxSettingDTO{},
		&taxrepo.SettingValueDTO{},
		&outbox.MessageDTO{},
		&idgen.CounterDTO{},
		&lookups.LocationDTO{},
		&lookups.InventoryLevelDTO{},
		&lookups.VariantDTO{},
		&lookups.CustomerDTO{},
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, lookups.NewGormCustomerLookup(c.gormDB))
}

func (c *CompositionRoot) CreateRouteOrderCommandHandler() commands.RouteOrderCommandHandler {
	var f commands.RoutingUoWFactory = FuncRoutingUoWFactory(func() commands.RoutingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRouteOrderCommandHandler(f, lookups.NewGormInventoryLookup(c.gormDB))
}

func (c *CompositionRoot) CreateRecordFulfillmentCommandHandler() commands.RecordFulfillmentCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordFulfillmentCommandHandler(f, c.redisStore)
}

func (c *CompositionRoot) CreateCreateOrderEditCommandHandler() commands.CreateOrderEditCommandHandler {
	return commands.NewCreateOrderEditCommandHandler(c.editUoWFactory())
}

func (c *CompositionRoot) CreateStageEditChangeCommandHandler() commands.StageEditChangeCommandHandler {
	return commands.NewStageEditChangeCommandHandler(c.editUoWFactory())
}

func (c *CompositionRoot) CreateCommitOrderEditCommandHandler() commands.CommitOrderEditCommandHandler {
	return commands.NewCommitOrderEditCommandHandler(c.editUoWFactory(), lookups.NewGormProductLookup(c.gormDB))
}

func (c *CompositionRoot) CreateDiscardOrderEditCommandHandler() commands.DiscardOrderEditCommandHandler {
	return commands.NewDiscardOrderEditCommandHandler(c.editUoWFactory())
}

func (c *CompositionRoot) CreateCreateRefundCommandHandler() commands.CreateRefundCommandHandler {
	var f commands.RefundUoWFactory = FuncRefundUoWFactory(func() commands.RefundUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateRefundCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.RoutingUoWFactory = FuncRoutingUoWFactory(func() commands.RoutingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateUpsertTaxSettingCommandHandler() commands.UpsertTaxSettingCommandHandler {
	var f commands.TaxUoWFactory = FuncTaxUoWFactory(func() commands.TaxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpsertTaxSettingCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnfulfilledOrdersQueryHandler() queries.GetUnfulfilledOrdersQueryHandler {
	return queries.NewGetUnfulfilledOrdersQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST adapter over every use case.
func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRouteOrderCommandHandler(),
		c.CreateRecordFulfillmentCommandHandler(),
		c.CreateCreateOrderEditCommandHandler(),
		c.CreateStageEditChangeCommandHandler(),
		c.CreateCommitOrderEditCommandHandler(),
		c.CreateDiscardOrderEditCommandHandler(),
		c.CreateCreateRefundCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateUpsertTaxSettingCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetUnfulfilledOrdersQueryHandler(),
	)
}

// CreateJobManager assembles the background jobs: the outbox relay that
// publishes committed domain events to Kafka.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(
		outbox.NewGormOutboxRepository(c.gormDB),
		kafkabus.NewKafkaEventPublisher(c.kafkaWriter),
		c.config.RelaySchedule,
		c.config.RelayBatchSize,
		logger,
	)
}

func (c *CompositionRoot) editUoWFactory() commands.EditUoWFactory {
	return FuncEditUoWFactory(func() commands.EditUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRoutingUoWFactory func() commands.RoutingUoW

func (f FuncRoutingUoWFactory) Create() commands.RoutingUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncEditUoWFactory func() commands.EditUoW

func (f FuncEditUoWFactory) Create() commands.EditUoW {
	return f()
}

type FuncRefundUoWFactory func() commands.RefundUoW

func (f FuncRefundUoWFactory) Create() commands.RefundUoW {
	return f()
}

type FuncTaxUoWFactory func() commands.TaxUoW

func (f FuncTaxUoWFactory) Create() commands.TaxUoW {
	return f()
}
