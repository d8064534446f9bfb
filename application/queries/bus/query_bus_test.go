package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"supramolecular/application/ports"
	"supramolecular/application/ports/mocks"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type squareQuery struct {
	N int
}

func (q squareQuery) Validate() error {
	if q.N < 0 {
		return pkgerrors.NewValidationError("n must not be negative")
	}
	return nil
}

func (q squareQuery) CacheKey() string { return string(rune('a' + q.N)) }

type countingMetrics struct {
	counts map[string]int
}

func (m *countingMetrics) StartTimer(metric, label string) ports.Timer   { return nopTimer{} }
func (m *countingMetrics) Increment(metric, label string)                { m.counts[metric]++ }
func (m *countingMetrics) Observe(metric, label string, d time.Duration) {}

type nopTimer struct{}

func (nopTimer) Stop() {}

func squareHandler(calls *int) QueryHandler {
	return Typed(func(ctx context.Context, q squareQuery) (int, error) {
		*calls++
		return q.N * q.N, nil
	})
}

func TestQueryBus_Ask(t *testing.T) {
	b := NewQueryBus()
	var calls int
	require.NoError(t, b.Register(squareQuery{}, squareHandler(&calls)))

	got, err := Ask[int](context.Background(), b, squareQuery{N: 7})
	require.NoError(t, err)
	assert.Equal(t, 49, got)

	_, err = Ask[string](context.Background(), b, squareQuery{N: 7})
	assert.Error(t, err, "result type mismatch")

	_, err = Ask[int](context.Background(), b, squareQuery{N: -1})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestQueryBus_UnknownQuery(t *testing.T) {
	_, err := NewQueryBus().Ask(context.Background(), squareQuery{N: 1})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCachingMiddleware(t *testing.T) {
	ctx := context.Background()
	cache := new(mocks.MockCache)
	metrics := &countingMetrics{counts: map[string]int{}}
	key := "bus.squareQuery:d"

	cache.On("Get", ctx, key).Return(nil, false).Once()
	cache.On("Set", ctx, key, 9, 60).Return(nil).Once()
	cache.On("Get", ctx, key).Return(9, true).Once()

	var calls int
	handler := NewCachingMiddleware(cache, 60, metrics).Wrap(squareHandler(&calls))

	for i := 0; i < 2; i++ {
		got, err := handler.Handle(ctx, squareQuery{N: 3})
		require.NoError(t, err)
		assert.Equal(t, 9, got)
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, metrics.counts[ports.MetricCacheHits])
	assert.Equal(t, 1, metrics.counts[ports.MetricCacheMisses])
	cache.AssertExpectations(t)
}

func TestCachingMiddleware_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	cache := new(mocks.MockCache)
	cache.On("Get", ctx, mock.Anything).Return(nil, false)

	failing := Typed(func(ctx context.Context, q squareQuery) (int, error) { return 0, errors.New("boom") })
	_, err := NewCachingMiddleware(cache, 60, nil).Wrap(failing).Handle(ctx, squareQuery{N: 1})

	assert.Error(t, err)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := &countingMetrics{counts: map[string]int{}}
	var calls int
	handler := NewMetricsMiddleware(metrics).Wrap(squareHandler(&calls))

	_, err := handler.Handle(context.Background(), squareQuery{N: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.counts[ports.MetricQueryCount])
	assert.Equal(t, 1, metrics.counts[ports.MetricQuerySuccess])
	assert.Zero(t, metrics.counts[ports.MetricQueryErrors])
}
