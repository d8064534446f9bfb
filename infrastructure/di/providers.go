package di

import (
	"context"
	"fmt"
	"time"

	"supramolecular/application/commands"
	"supramolecular/application/commands/bus"
	commandhandlers "supramolecular/application/commands/handlers"
	"supramolecular/application/ports"
	"supramolecular/application/queries"
	querybus "supramolecular/application/queries/bus"
	queryhandlers "supramolecular/application/queries/handlers"
	"supramolecular/application/services"
	domainconfig "supramolecular/domain/config"
	"supramolecular/domain/fitting"
	"supramolecular/infrastructure/config"
	"supramolecular/infrastructure/messaging"
	"supramolecular/infrastructure/observability"
	"supramolecular/infrastructure/persistence/dynamodb"
	"supramolecular/infrastructure/persistence/memory"
	"supramolecular/infrastructure/persistence/sqlite"
	"supramolecular/pkg/auth"
	pkgobservability "supramolecular/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
)

const (
	serviceName     = "supramolecular"
	metricNamespace = "supramolecular"
	cacheMaxEntries = 1024
)

// Storage groups the repositories of one storage driver
type Storage struct {
	Data   ports.DataRepository
	Fits   ports.FitRepository
	Health ports.HealthChecker
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = level

	return zcfg.Build()
}

// ProvideDomainConfig selects the domain rules for the environment and
// applies the server overrides
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	dc := domainconfig.LoadDomainConfig(cfg.Environment)
	if cfg.FitTimeout > 0 {
		dc.FitTimeout = cfg.FitTimeout
	}
	if cfg.MaxConcurrentFits > 0 {
		dc.MaxConcurrentFits = cfg.MaxConcurrentFits
	}
	if err := dc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid domain config: %w", err)
	}
	return dc, nil
}

// ProvideAWSConfig creates AWS configuration. Clients built from it are
// instrumented for X-Ray when tracing is enabled.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideStorage opens the repositories for the configured driver
func ProvideStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		data := memory.NewDataRepository()
		return &Storage{Data: data, Fits: memory.NewFitRepository(), Health: data}, func() {}, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close SQLite store", zap.Error(err))
			}
		}
		logger.Info("Using SQLite storage", zap.String("path", store.Path()))
		return &Storage{
			Data:   sqlite.NewDataRepository(store),
			Fits:   sqlite.NewFitRepository(store),
			Health: store,
		}, cleanup, nil

	case config.StorageDynamoDB:
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		tableCfg := dynamodb.Config{
			TableName:      cfg.DynamoDBTable,
			GSI1IndexName:  cfg.GSI1IndexName,
			RequestTimeout: 10 * time.Second,
		}
		data := dynamodb.NewDataRepository(client, tableCfg, logger)
		logger.Info("Using DynamoDB storage", zap.String("table", cfg.DynamoDBTable))
		return &Storage{
			Data:   data,
			Fits:   dynamodb.NewFitRepository(client, tableCfg, logger),
			Health: data,
		}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// ProvideDataRepository exposes the dataset repository of the storage
func ProvideDataRepository(s *Storage) ports.DataRepository {
	return s.Data
}

// ProvideFitRepository exposes the fit repository of the storage
func ProvideFitRepository(s *Storage) ports.FitRepository {
	return s.Fits
}

// ProvideHealthChecker exposes the readiness check of the storage
func ProvideHealthChecker(s *Storage) ports.HealthChecker {
	return s.Health
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured
// and to the log otherwise
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.EventPublisher, error) {
	if cfg.EventBusName == "" {
		return messaging.NewLogPublisher(logger), nil
	}
	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return messaging.NewEventBridgePublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger), nil
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(metricNamespace)
}

// ProvideMetrics returns the collector, or a no-op sink when metrics are off
func ProvideMetrics(cfg *config.Config, collector *observability.Collector) ports.Metrics {
	if !cfg.EnableMetrics {
		return observability.NopMetrics{}
	}
	return collector
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *pkgobservability.Tracer {
	return pkgobservability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideRegistry returns the fitter registry
func ProvideRegistry() *fitting.Registry {
	return fitting.DefaultRegistry()
}

// ProvideFitService creates the fit service
func ProvideFitService(
	registry *fitting.Registry,
	dc *domainconfig.DomainConfig,
	tracer *pkgobservability.Tracer,
	metrics ports.Metrics,
	logger *zap.Logger,
) *services.FitService {
	return services.NewFitService(registry, dc, tracer, metrics, logger)
}

// ProvideInMemoryCache creates the query result cache
func ProvideInMemoryCache() (*InMemoryCache, func()) {
	cache := NewInMemoryCache(cacheMaxEntries)
	return cache, cache.Close
}

// ProvideRateLimiter creates the per-IP rate limiter
func ProvideRateLimiter(cfg *config.Config) *auth.IPRateLimiter {
	return auth.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

// ProvideJWTValidator returns nil when authentication is disabled
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	dataRepo ports.DataRepository,
	fitRepo ports.FitRepository,
	fitService *services.FitService,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)

	upload := commandhandlers.NewUploadDataHandler(dataRepo, publisher, metrics, dc, logger)
	save := commandhandlers.NewSaveFitHandler(dataRepo, fitRepo, fitService, publisher, metrics, dc, logger)
	del := commandhandlers.NewDeleteFitHandler(fitRepo, publisher, logger)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.UploadDataCommand{}, bus.Typed(upload.Handle)},
		{commands.SaveFitCommand{}, bus.Typed(save.Handle)},
		{commands.DeleteFitCommand{}, bus.Typed(del.Handle)},
	}
	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers. Fit runs are
// cached by dataset, fitter and guess; datasets are immutable so entries
// never go stale.
func ProvideQueryBus(
	dataRepo ports.DataRepository,
	fitRepo ports.FitRepository,
	fitService *services.FitService,
	registry *fitting.Registry,
	cache *InMemoryCache,
	metrics ports.Metrics,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	measured := querybus.NewMetricsMiddleware(metrics)
	cached := querybus.NewCachingMiddleware(cache, int(dc.FitCacheTTL/time.Second), metrics)

	runFit := queryhandlers.NewRunFitHandler(dataRepo, fitService, logger)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetDataQuery{}, querybus.Typed(queryhandlers.NewGetDataHandler(dataRepo).Handle)},
		{queries.RunFitQuery{}, cached.Wrap(querybus.Typed(runFit.Handle))},
		{queries.GetFitQuery{}, querybus.Typed(queryhandlers.NewGetFitHandler(fitRepo, dataRepo, fitService).Handle)},
		{queries.ListFitsQuery{}, querybus.Typed(queryhandlers.NewListFitsHandler(fitRepo, dc).Handle)},
		{queries.ListFittersQuery{}, querybus.Typed(queryhandlers.NewListFittersHandler(registry).Handle)},
		{queries.SimulateQuery{}, querybus.Typed(queryhandlers.NewSimulateHandler(registry, dc).Handle)},
	}
	for _, r := range registrations {
		if err := queryBus.Register(r.query, measured.Wrap(r.handler)); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}
