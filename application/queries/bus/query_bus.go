package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"supramolecular/application/ports"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// CacheKeyer lets a query supply its own cache key
type CacheKeyer interface {
	CacheKey() string
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers map[reflect.Type]QueryHandler
	mu       sync.RWMutex
}

// NewQueryBus creates a new query bus
func NewQueryBus() *QueryBus {
	return &QueryBus{
		handlers: make(map[reflect.Type]QueryHandler),
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotFound, query)
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query handler failed: %w", err)
	}

	return result, nil
}

// Ask dispatches a query and asserts the result type
func Ask[R any](ctx context.Context, b *QueryBus, query Query) (R, error) {
	var zero R
	result, err := b.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("query %T returned %T, expected %T", query, result, zero)
	}
	return typed, nil
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Typed adapts a handler written against concrete query and result types
func Typed[Q Query, R any](fn func(ctx context.Context, query Q) (R, error)) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("handler expects %T, got %T", *new(Q), query)
		}
		return fn(ctx, typed)
	})
}

// CachingMiddleware adds caching to query handlers
type CachingMiddleware struct {
	cache   Cache
	ttl     int // TTL in seconds
	metrics Metrics
}

// NewCachingMiddleware creates a new caching middleware. metrics may be nil.
func NewCachingMiddleware(cache Cache, ttl int, metrics Metrics) *CachingMiddleware {
	return &CachingMiddleware{
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Wrap wraps a query handler with caching
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		cacheKey := m.generateCacheKey(query)
		queryType := reflect.TypeOf(query).Name()

		if cached, found := m.cache.Get(ctx, cacheKey); found {
			m.count(ports.MetricCacheHits, queryType)
			return cached, nil
		}
		m.count(ports.MetricCacheMisses, queryType)

		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}

		// A failed cache write only costs a recomputation.
		_ = m.cache.Set(ctx, cacheKey, result, m.ttl)

		return result, nil
	})
}

func (m *CachingMiddleware) count(metric, label string) {
	if m.metrics != nil {
		m.metrics.Increment(metric, label)
	}
}

func (m *CachingMiddleware) generateCacheKey(query Query) string {
	if k, ok := query.(CacheKeyer); ok {
		return fmt.Sprintf("%T:%s", query, k.CacheKey())
	}
	return fmt.Sprintf("%T:%+v", query, query)
}

// Cache interface for caching
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
}

// MetricsMiddleware adds metrics to query handlers
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Wrap wraps a query handler with metrics
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		queryType := reflect.TypeOf(query).Name()

		timer := m.metrics.StartTimer(ports.MetricQueryDuration, queryType)
		defer timer.Stop()

		m.metrics.Increment(ports.MetricQueryCount, queryType)

		result, err := next.Handle(ctx, query)
		if err != nil {
			m.metrics.Increment(ports.MetricQueryErrors, queryType)
			return nil, err
		}

		m.metrics.Increment(ports.MetricQuerySuccess, queryType)
		return result, nil
	})
}

// Metrics is the measurement sink used by the middleware
type Metrics = ports.Metrics

// Errors
var (
	ErrHandlerNotFound = errors.New("query handler not found")
)
