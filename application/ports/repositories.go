package ports

import (
	"context"
	"time"

	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/events"
)

// DataRepository defines the interface for dataset persistence
// Datasets are immutable and keyed by their content hash
type DataRepository interface {
	// Save stores a dataset. Saving an ID that already exists is a no-op.
	Save(ctx context.Context, data *entities.Dataset) error

	// GetByID retrieves a dataset by its content hash
	GetByID(ctx context.Context, id valueobjects.DataID) (*entities.Dataset, error)

	// Exists reports whether a dataset is stored
	Exists(ctx context.Context, id valueobjects.DataID) (bool, error)
}

// FitRepository defines the interface for saved fit persistence
type FitRepository interface {
	// Save persists a fit
	Save(ctx context.Context, fit *entities.Fit) error

	// GetByID retrieves a fit by its ID
	GetByID(ctx context.Context, id valueobjects.FitID) (*entities.Fit, error)

	// List returns fits newest first
	List(ctx context.Context, filter FitFilter) ([]*entities.Fit, error)

	// Delete removes a fit
	Delete(ctx context.Context, id valueobjects.FitID) error
}

// FitFilter narrows a fit listing
type FitFilter struct {
	// DataID restricts the listing to fits of one dataset when set
	DataID valueobjects.DataID
	Limit  int
}

// HealthChecker is implemented by stores that can report readiness
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}

// Metrics records application level measurements
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
	Observe(metric, label string, d time.Duration)
}

// Timer stops a running measurement
type Timer interface {
	Stop()
}

// Tracer wraps a unit of work in a trace span
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
	AddAnnotation(ctx context.Context, key string, value string)
}

// Metric names shared by the application layer and the metrics backend
const (
	MetricQueryDuration    = "query_duration"
	MetricQueryCount       = "query_count"
	MetricQueryErrors      = "query_errors"
	MetricQuerySuccess     = "query_success"
	MetricCommandDuration  = "command_duration"
	MetricCommandErrors    = "command_errors"
	MetricFitDuration      = "fit_duration"
	MetricFitsTotal        = "fits_total"
	MetricFitsFailed       = "fits_failed"
	MetricFitsTimedOut     = "fits_timed_out"
	MetricCacheHits        = "cache_hits"
	MetricCacheMisses      = "cache_misses"
	MetricDatasetsUploaded = "datasets_uploaded"
	MetricFitsSaved        = "fits_saved"
)
