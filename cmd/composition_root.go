package cmd

import (
	"log/slog"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/postgres"
	redisadapter "dispatch/internal/adapters/out/redis"
	"dispatch/internal/broadcast"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/jobs"
	"dispatch/internal/simulator"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires every adapter and use case together. Long-lived
// components (broadcaster, tracker, reconciler) are built once; handlers are
// cheap value types created on demand.
type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	rules       *rule.Table
	broadcaster *broadcast.Broadcaster
	tracker     *simulator.Tracker
	reconciler  *simulator.Reconciler
	cache       *redisadapter.AnomalyReasonCache
	logger      *slog.Logger
}

// NewCompositionRoot builds the object graph from the opened connections and
// the seeded rule table.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	rules *rule.Table,
	logger *slog.Logger,
) *CompositionRoot {
	root := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		rules:      rules,
		logger:     logger,
	}

	root.broadcaster = broadcast.NewBroadcaster(logger)
	root.cache = redisadapter.NewAnomalyReasonCache(redisClient, config.AnomalyCacheTTL)

	root.tracker = simulator.NewTracker(
		rules,
		commands.NewRecordPositionCommandHandler(root.orderUoWFactory()),
		commands.NewTryAutoArriveCommandHandler(root.orderUoWFactory(), root.broadcaster),
		root.broadcaster,
		config.ArrivalThresholdMeters,
		logger,
	)

	// The reconciler reads outside any transaction; a unit of work that never
	// begins one hands repositories the main connection.
	root.reconciler = simulator.NewReconciler(
		root.uowFactory.Create().OrderRepository(),
		root.tracker,
		logger,
	)

	return root
}

// Tracker returns the simulator tracker for lifecycle management.
func (c *CompositionRoot) Tracker() *simulator.Tracker {
	return c.tracker
}

// Reconciler returns the shipping-order reconciler.
func (c *CompositionRoot) Reconciler() *simulator.Reconciler {
	return c.reconciler
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) zoneUoWFactory() commands.ZoneUoWFactory {
	return FuncZoneUoWFactory(func() commands.ZoneUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uoWFactory())
}

func (c *CompositionRoot) CreateShipOrderCommandHandler() commands.ShipOrderCommandHandler {
	return commands.NewShipOrderCommandHandler(c.orderUoWFactory(), c.rules, c.tracker, c.broadcaster)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), c.broadcaster)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.tracker, c.broadcaster)
}

func (c *CompositionRoot) CreateCreateZoneCommandHandler() commands.CreateZoneCommandHandler {
	return commands.NewCreateZoneCommandHandler(c.zoneUoWFactory(), c.rules)
}

func (c *CompositionRoot) CreateUpdateZoneCommandHandler() commands.UpdateZoneCommandHandler {
	return commands.NewUpdateZoneCommandHandler(c.zoneUoWFactory(), c.rules)
}

func (c *CompositionRoot) CreateDeleteZoneCommandHandler() commands.DeleteZoneCommandHandler {
	return commands.NewDeleteZoneCommandHandler(c.zoneUoWFactory())
}

func (c *CompositionRoot) CreateSweepAnomaliesCommandHandler() commands.SweepAnomaliesCommandHandler {
	return commands.NewSweepAnomaliesCommandHandler(
		c.orderUoWFactory(),
		c.cache,
		commands.AnomalyThresholds{
			MaxPendingAge:           c.config.MaxPendingAge,
			MaxShippingAge:          c.config.MaxShippingAge,
			MaxPositionGap:          c.config.MaxPositionGap,
			MaxRouteDeviationMeters: c.config.MaxRouteDeviationMeters,
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderTrackQueryHandler() queries.GetOrderTrackQueryHandler {
	return queries.NewGetOrderTrackQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetZonesQueryHandler() queries.GetZonesQueryHandler {
	return queries.NewGetZonesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateFindDeliveryRuleQueryHandler() queries.FindDeliveryRuleQueryHandler {
	return queries.NewFindDeliveryRuleQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST surface.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateShipOrderCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateCreateZoneCommandHandler(),
		c.CreateUpdateZoneCommandHandler(),
		c.CreateDeleteZoneCommandHandler(),
		c.CreateGetOrderTrackQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.CreateGetZonesQueryHandler(),
		c.CreateFindDeliveryRuleQueryHandler(),
	)
}

// CreateWSHandler assembles the WebSocket subscription surface.
func (c *CompositionRoot) CreateWSHandler() *ws.Handler {
	return ws.NewHandler(c.broadcaster, c.config.WSReorderLimit, c.logger)
}

// CreateJobManager assembles the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepAnomaliesCommandHandler(),
		c.config.SweepSchedule,
		c.reconciler,
		c.config.ReconcileSchedule,
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncZoneUoWFactory func() commands.ZoneUoW

func (f FuncZoneUoWFactory) Create() commands.ZoneUoW {
	return f()
}
