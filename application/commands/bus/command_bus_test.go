package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"supramolecular/application/ports"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingCommand struct {
	Name string
}

func (c pingCommand) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("name is required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

type countingMetrics struct {
	counts map[string]int
}

func (m *countingMetrics) StartTimer(metric, label string) ports.Timer {
	m.counts[metric+":"+label]++
	return stopFunc(func() {})
}
func (m *countingMetrics) Increment(metric, label string)                { m.counts[metric+":"+label]++ }
func (m *countingMetrics) Observe(metric, label string, d time.Duration) {}

type stopFunc func()

func (f stopFunc) Stop() { f() }

func TestCommandBus_Send(t *testing.T) {
	b := NewCommandBus()
	var got string
	require.NoError(t, b.Register(pingCommand{}, Typed(func(ctx context.Context, cmd pingCommand) error {
		got = cmd.Name
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), pingCommand{Name: "hello"}))
	assert.Equal(t, "hello", got)
}

func TestCommandBus_ValidationAndRouting(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, Typed(func(ctx context.Context, cmd pingCommand) error { return nil })))

	err := b.Send(context.Background(), pingCommand{})
	assert.True(t, pkgerrors.IsValidation(err))

	err = b.Send(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	err = b.Register(pingCommand{}, Typed(func(ctx context.Context, cmd pingCommand) error { return nil }))
	assert.Error(t, err, "duplicate registration")
}

func TestCommandBus_HandlerErrorKeepsType(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, Typed(func(ctx context.Context, cmd pingCommand) error {
		return pkgerrors.NewNotFoundError("dataset")
	})))

	err := b.Send(context.Background(), pingCommand{Name: "x"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCommandBus_Middleware(t *testing.T) {
	metrics := &countingMetrics{counts: map[string]int{}}
	var order []string
	trace := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	b := NewCommandBus(trace("outer"), LoggingMiddleware(zap.NewNop()), MetricsMiddleware(metrics), trace("inner"))
	require.NoError(t, b.Register(pingCommand{}, Typed(func(ctx context.Context, cmd pingCommand) error {
		return errors.New("boom")
	})))

	err := b.Send(context.Background(), pingCommand{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, 1, metrics.counts[ports.MetricCommandDuration+":pingCommand"])
	assert.Equal(t, 1, metrics.counts[ports.MetricCommandErrors+":pingCommand"])
}
