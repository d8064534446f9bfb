package di

import (
	"supramolecular/application/commands/bus"
	"supramolecular/application/ports"
	querybus "supramolecular/application/queries/bus"
	"supramolecular/application/services"
	domainconfig "supramolecular/domain/config"
	"supramolecular/domain/fitting"
	"supramolecular/infrastructure/config"
	"supramolecular/infrastructure/observability"
	"supramolecular/pkg/auth"
	pkgobservability "supramolecular/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger
	DataRepo     ports.DataRepository
	FitRepo      ports.FitRepository
	Health       ports.HealthChecker
	Publisher    ports.EventPublisher
	Cache        *InMemoryCache
	Collector    *observability.Collector
	Metrics      ports.Metrics
	Tracer       *pkgobservability.Tracer
	Registry     *fitting.Registry
	FitService   *services.FitService
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	RateLimiter  *auth.IPRateLimiter
	JWTValidator *auth.JWTValidator
}
