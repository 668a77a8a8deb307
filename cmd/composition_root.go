package cmd

import (
	"context"
	"errors"
	"fmt"

	"bytebite/api"
	httpadapter "bytebite/internal/adapters/in/http"
	"bytebite/internal/adapters/in/menusheet"
	"bytebite/internal/adapters/out/memqueue"
	"bytebite/internal/adapters/out/redisqueue"
	"bytebite/internal/adapters/out/tablestore"
	"bytebite/internal/core/application/usecases/commands"
	"bytebite/internal/core/application/usecases/queries"
	"bytebite/internal/core/ports"
	"bytebite/internal/jobs"
	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// CompositionRoot owns the long lived clients and builds every handler from them.
type CompositionRoot struct {
	cfg      Config
	clock    ports.Clock
	store    *tablestore.Store
	redis    *redis.Client
	queue    ports.DispatchQueue
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logger   logger.ILogger
}

func NewCompositionRoot(ctx context.Context, cfg Config, log logger.ILogger) (*CompositionRoot, error) {
	clock := ports.SystemClock{}

	store, err := tablestore.Open(ctx, tablestore.Config{
		Driver:      cfg.StoreDriver,
		PostgresDSN: cfg.PostgresDSN(),
		SQLitePath:  cfg.SQLitePath,
	}, clock)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	root := &CompositionRoot{
		cfg:      cfg,
		clock:    clock,
		store:    store,
		registry: prometheus.NewRegistry(),
		logger:   log,
	}
	root.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	root.metrics = metrics.New(root.registry)

	switch cfg.QueueDriver {
	case QueueDriverRedis:
		root.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		root.queue = redisqueue.New(root.redis, clock, redisqueue.Config{
			Prefix:     cfg.QueuePrefix,
			MessageTTL: cfg.QueueMessageTTL,
		})
	case QueueDriverMemory:
		log.Warn("using the in-process dispatch queue; messages are lost on restart")
		root.queue = memqueue.New(clock, cfg.QueueMessageTTL)
	default:
		_ = store.Close()
		return nil, fmt.Errorf("unknown queue driver %q", cfg.QueueDriver)
	}

	return root, nil
}

func (c *CompositionRoot) CreateDispatchNotifier() *commands.DispatchNotifier {
	return commands.NewDispatchNotifier(c.queue, c.store.Deliveries(), c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	return commands.NewSubmitOrderCommandHandler(
		c.store.Orders(), c.store.Deliveries(), c.CreateDispatchNotifier(), c.clock, c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateClaimDeliveryCommandHandler() commands.ClaimDeliveryCommandHandler {
	return commands.NewClaimDeliveryCommandHandler(
		c.store.Deliveries(), c.store.Orders(), c.queue, c.clock, c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(
		c.store.Deliveries(), c.store.Orders(), c.clock, c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateRegisterRestaurantCommandHandler() commands.RegisterRestaurantCommandHandler {
	return commands.NewRegisterRestaurantCommandHandler(c.store.Restaurants())
}

func (c *CompositionRoot) CreateRegisterMealCommandHandler() commands.RegisterMealCommandHandler {
	return commands.NewRegisterMealCommandHandler(c.store.Meals())
}

func (c *CompositionRoot) CreateReconcilePendingDeliveriesCommandHandler() commands.ReconcilePendingDeliveriesCommandHandler {
	return commands.NewReconcilePendingDeliveriesCommandHandler(
		c.store.Deliveries(), c.CreateDispatchNotifier(), c.clock, c.logger,
	)
}

func (c *CompositionRoot) CreateCheckDeliveryQueueQueryHandler() queries.CheckDeliveryQueueQueryHandler {
	return queries.NewCheckDeliveryQueueQueryHandler(
		c.queue, c.store.Deliveries(), c.cfg.VisibilityTimeout, c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateGetMyDeliveriesQueryHandler() queries.GetMyDeliveriesQueryHandler {
	return queries.NewGetMyDeliveriesQueryHandler(c.store.Deliveries())
}

func (c *CompositionRoot) CreateGetMealsByAreaQueryHandler() queries.GetMealsByAreaQueryHandler {
	return queries.NewGetMealsByAreaQueryHandler(c.store.Meals())
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		SubmitOrder:          c.CreateSubmitOrderCommandHandler(),
		ClaimDelivery:        c.CreateClaimDeliveryCommandHandler(),
		UpdateDeliveryStatus: c.CreateUpdateDeliveryStatusCommandHandler(),
		RegisterRestaurant:   c.CreateRegisterRestaurantCommandHandler(),
		RegisterMeal:         c.CreateRegisterMealCommandHandler(),
		CheckDeliveryQueue:   c.CreateCheckDeliveryQueueQueryHandler(),
		GetMyDeliveries:      c.CreateGetMyDeliveriesQueryHandler(),
		GetMealsByArea:       c.CreateGetMealsByAreaQueryHandler(),
	}, c.cfg.PollLimit, c.logger)
}

func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	return httpadapter.NewRouter(httpadapter.RouterConfig{
		Doc:    doc,
		Server: c.CreateHTTPServer(),
		Health: map[string]httpadapter.Pinger{
			"store": c.store,
			"queue": c.queue,
		},
		Metrics:        c.metrics,
		Gatherer:       c.registry,
		Logger:         c.logger,
		RequestTimeout: c.cfg.RequestTimeout,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewReconcileJob(c.CreateReconcilePendingDeliveriesCommandHandler(), jobs.ReconcileConfig{
			Schedule:   c.cfg.ReconcileSchedule,
			StaleAfter: c.cfg.ReconcileStaleAfter,
			Batch:      c.cfg.ReconcileBatch,
			Timeout:    c.cfg.RequestTimeout,
		}, c.logger),
	)
}

func (c *CompositionRoot) CreateMenuImporter() *menusheet.Importer {
	return menusheet.NewImporter(
		c.CreateRegisterRestaurantCommandHandler(),
		c.CreateRegisterMealCommandHandler(),
		c.logger,
	)
}

// Close releases the queue client and the store.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	if c.redis != nil {
		closeErrs = append(closeErrs, c.redis.Close())
	}
	closeErrs = append(closeErrs, c.store.Close())
	return errors.Join(closeErrs...)
}
