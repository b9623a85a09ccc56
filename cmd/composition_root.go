package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/in/ws"
	"fooddelivery/internal/adapters/out/auth"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/pubsub"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"gorm.io/gorm"
)

// RelayFunc feeds events from the broker into the local hub until ctx is done.
type RelayFunc func(ctx context.Context) error

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	hub        *pubsub.Hub
	publisher  ports.EventPublisher
	relay      RelayFunc
	closers    []func() error
	checks     []http.HealthCheck
	dispatcher services.OrderDispatcher
	verifier   *auth.JWTVerifier
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, cfg.DefaultTimezone),
		hub:        pubsub.NewHub(cfg.WSSendBuffer, logger),
		dispatcher: services.NewOrderDispatcher(cfg.PossibleCourierDistance),
		verifier:   verifier,
		logger:     logger,
	}
	c.closers = append(c.closers, c.hub.Close)
	c.checks = append(c.checks, c.pingDatabase)

	if err := c.wireBroker(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// wireBroker picks the publisher the handlers write to. With a shared
// broker every instance relays what it receives into its own hub.
func (c *CompositionRoot) wireBroker() error {
	switch c.cfg.Broker {
	case BrokerMemory:
		c.publisher = c.hub

	case BrokerRedis:
		pool, err := pubsub.NewRedisPool(c.cfg.RedisAddr)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, pool.Close)
		c.publisher = pubsub.NewRedisPublisher(pool, c.cfg.BrokerTopic)
		c.relay = pubsub.NewRedisRelay(c.cfg.RedisAddr, c.cfg.BrokerTopic, c.hub, c.logger).Run

	case BrokerAMQP:
		broker, err := pubsub.NewAMQPBroker(c.cfg.AMQPURL, c.cfg.BrokerTopic, c.logger)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, broker.Close)
		c.checks = append(c.checks, func(context.Context) error {
			if !broker.IsAlive() {
				return errors.New("rabbitmq connection closed")
			}
			return nil
		})
		c.publisher = broker
		c.relay = func(ctx context.Context) error {
			return broker.Relay(ctx, c.hub)
		}

	case BrokerPostgres:
		c.publisher = pubsub.NewNotifyPublisher(c.gormDB, pubsub.DefaultNotifyChannel)
		c.relay = pubsub.NewListenRelay(c.cfg.DSN(), pubsub.DefaultNotifyChannel, c.hub, c.logger).Run

	default:
		return fmt.Errorf("unknown broker %q", c.cfg.Broker)
	}

	c.logger.Info("Event broker configured", "broker", c.cfg.Broker)
	return nil
}

// Relay is nil for the in-memory broker.
func (c *CompositionRoot) Relay() RelayFunc {
	return c.relay
}

// HealthChecks backs /health: the database and, with BROKER=amqp, the broker connection.
func (c *CompositionRoot) HealthChecks() []http.HealthCheck {
	return c.checks
}

func (c *CompositionRoot) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *CompositionRoot) Verifier() ports.TokenVerifier {
	return c.verifier
}

// Close releases broker connections and closes every subscriber stream.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateGetOrCreateOpenOrderCommandHandler() commands.GetOrCreateOpenOrderCommandHandler {
	return commands.NewGetOrCreateOpenOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAddOrderDishCommandHandler() commands.AddOrderDishCommandHandler {
	return commands.NewAddOrderDishCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateOrderDishCommandHandler() commands.UpdateOrderDishCommandHandler {
	return commands.NewUpdateOrderDishCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRemoveOrderDishCommandHandler() commands.RemoveOrderDishCommandHandler {
	return commands.NewRemoveOrderDishCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	return commands.NewSubmitOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.cfg.PossibleUserDistance, c.logger)
}

func (c *CompositionRoot) CreateRecreateOrderCommandHandler() commands.RecreateOrderCommandHandler {
	return commands.NewRecreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAppendOrderStatusCommandHandler() commands.AppendOrderStatusCommandHandler {
	return commands.NewAppendOrderStatusCommandHandler(c.courierUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.courierUoWFactory(), c.dispatcher, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.courierUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRemindUnclaimedOrdersCommandHandler() commands.RemindUnclaimedOrdersCommandHandler {
	return commands.NewRemindUnclaimedOrdersCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateGetUserOrderHistoryQueryHandler() queries.GetUserOrderHistoryQueryHandler {
	return queries.NewGetUserOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUserOrderQueryHandler() queries.GetUserOrderQueryHandler {
	return queries.NewGetUserOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderStatusesQueryHandler() queries.GetOrderStatusesQueryHandler {
	return queries.NewGetOrderStatusesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListFreeOrdersQueryHandler() queries.ListFreeOrdersQueryHandler {
	return queries.NewListFreeOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierCurrentOrderQueryHandler() queries.GetCourierCurrentOrderQueryHandler {
	return queries.NewGetCourierCurrentOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierOrderHistoryQueryHandler() queries.GetCourierOrderHistoryQueryHandler {
	return queries.NewGetCourierOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierOrderQueryHandler() queries.GetCourierOrderQueryHandler {
	return queries.NewGetCourierOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetNearbyRestaurantsQueryHandler() queries.GetNearbyRestaurantsQueryHandler {
	return queries.NewGetNearbyRestaurantsQueryHandler(c.gormDB, c.cfg.PossibleUserDistance, c.cfg.DefaultTimezone)
}

func (c *CompositionRoot) CreateIsCourierQueryHandler() queries.IsCourierQueryHandler {
	return queries.NewIsCourierQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOwnsOrderQueryHandler() queries.OwnsOrderQueryHandler {
	return queries.NewOwnsOrderQueryHandler(c.gormDB)
}

// NewServer builds the HTTP API over every use case.
func (c *CompositionRoot) NewServer() *http.Server {
	return http.NewServer(http.Handlers{
		GetOrCreateOpenOrder:  c.CreateGetOrCreateOpenOrderCommandHandler(),
		AddOrderDish:          c.CreateAddOrderDishCommandHandler(),
		UpdateOrderDish:       c.CreateUpdateOrderDishCommandHandler(),
		RemoveOrderDish:       c.CreateRemoveOrderDishCommandHandler(),
		SubmitOrder:           c.CreateSubmitOrderCommandHandler(),
		RecreateOrder:         c.CreateRecreateOrderCommandHandler(),
		AppendOrderStatus:     c.CreateAppendOrderStatusCommandHandler(),
		ClaimOrder:            c.CreateClaimOrderCommandHandler(),
		UpdateCourierLocation: c.CreateUpdateCourierLocationCommandHandler(),

		GetUserOrderHistory:    c.CreateGetUserOrderHistoryQueryHandler(),
		GetUserOrder:           c.CreateGetUserOrderQueryHandler(),
		GetOrderStatuses:       c.CreateGetOrderStatusesQueryHandler(),
		ListFreeOrders:         c.CreateListFreeOrdersQueryHandler(),
		GetCourierCurrentOrder: c.CreateGetCourierCurrentOrderQueryHandler(),
		GetCourierOrderHistory: c.CreateGetCourierOrderHistoryQueryHandler(),
		GetCourierOrder:        c.CreateGetCourierOrderQueryHandler(),
		GetNearbyRestaurants:   c.CreateGetNearbyRestaurantsQueryHandler(),
	})
}

func (c *CompositionRoot) NewGateway() *ws.Gateway {
	return ws.NewGateway(c.hub, c.verifier, c.CreateIsCourierQueryHandler(), c.CreateOwnsOrderQueryHandler(), c.logger)
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewUnclaimedOrderReminderJob(
			c.CreateRemindUnclaimedOrdersCommandHandler(),
			c.cfg.ReminderCron,
			c.cfg.ReminderAfter,
			c.logger,
		),
	)
}

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 10 * time.Second

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
