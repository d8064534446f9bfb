package di

import (
	"context"
	"path/filepath"
	"testing"

	"supramolecular/domain/core/entities"
	"supramolecular/infrastructure/config"
	"supramolecular/infrastructure/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_TTLAndEviction(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCache(2)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "a", 1, 60))
	require.NoError(t, cache.Set(ctx, "b", 2, 120))
	require.NoError(t, cache.Set(ctx, "expired", 3, -1))
	assert.Equal(t, 2, cache.Len())

	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok, "entry closest to expiry is evicted first")
	v, ok := cache.Get(ctx, "b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = cache.Get(ctx, "expired")
	assert.False(t, ok)

	require.NoError(t, cache.Delete(ctx, "b"))
	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
	cache.Close()
}

func testConfig(driver string) *config.Config {
	cfg := config.Defaults()
	cfg.StorageDriver = driver
	cfg.LogLevel = "error"
	return cfg
}

func TestInitializeContainer_Memory(t *testing.T) {
	ctx := context.Background()
	c, cleanup, err := InitializeContainer(ctx, testConfig(config.StorageMemory))
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, c.CommandBus)
	assert.NotNil(t, c.QueryBus)
	assert.NotNil(t, c.RateLimiter)
	assert.Nil(t, c.JWTValidator, "auth is off by default")
	assert.NoError(t, c.Health.Ping(ctx))
	assert.NotEmpty(t, c.Registry.List())
}

func TestInitializeContainer_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.StorageSQLite)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "bindfit.db")

	c, cleanup, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, c.Health.Ping(ctx))

	ds, err := entities.NewDataset([]float64{1e-3, 1e-3, 1e-3}, []float64{0, 1e-3, 2e-3}, [][]float64{{1, 1.2, 1.3}})
	require.NoError(t, err)
	require.NoError(t, c.DataRepo.Save(ctx, ds))

	exists, err := c.DataRepo.Exists(ctx, ds.ID())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInitializeContainer_MetricsDisabled(t *testing.T) {
	cfg := testConfig(config.StorageMemory)
	cfg.EnableMetrics = false

	c, cleanup, err := InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, observability.NopMetrics{}, c.Metrics)
}

func TestInitializeContainer_AuthEnabled(t *testing.T) {
	cfg := testConfig(config.StorageMemory)
	cfg.AuthEnabled = true
	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"

	c, cleanup, err := InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, c.JWTValidator)
}
