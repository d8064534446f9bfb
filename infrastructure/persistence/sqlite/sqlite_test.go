package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"supramolecular/application/ports"
	"supramolecular/domain/config"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleDataset(t *testing.T, last float64) *entities.Dataset {
	t.Helper()
	d, err := entities.NewDataset(
		[]float64{1e-3, 1e-3, 1e-3},
		[]float64{0, 1e-3, 2e-3},
		[][]float64{{7.0, 7.3, last}, {3.1, 3.0, 2.95}},
	)
	require.NoError(t, err)
	return d
}

func sampleFit(t *testing.T, d *entities.Dataset, name string) *entities.Fit {
	t.Helper()
	fit, err := entities.NewFit(valueobjects.NewFitID(), entities.FitMetadata{Name: name, Notes: "n"}, d,
		valueobjects.FitterNMR1to1, 1, []float64{100},
		entities.FitOutcome{
			Params: []float64{987.6},
			Y:      [][]float64{{7.0, 7.31, 7.44}, {3.1, 3.01, 2.96}},
			Coeffs: [][]float64{{0.5}, {-0.2}},
			RSS:    1.5e-4,
		},
		config.DefaultDomainConfig(),
	)
	require.NoError(t, err)
	return fit
}

func TestDataRepository_SaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewDataRepository(openStore(t))
	d := sampleDataset(t, 7.45)

	require.NoError(t, repo.Save(ctx, d))
	require.NoError(t, repo.Save(ctx, d))

	exists, err := repo.Exists(ctx, d.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByID(ctx, d.ID())
	require.NoError(t, err)
	assert.True(t, got.ID().Equals(d.ID()))
	assert.Equal(t, d.H0(), got.H0())
	assert.Equal(t, d.Y(), got.Y())
	assert.WithinDuration(t, d.CreatedAt(), got.CreatedAt(), time.Microsecond)
}

func TestDataRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDataRepository(openStore(t))
	id, err := valueobjects.NewDataIDFromString(strings.Repeat("0", 40))
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, id)
	assert.True(t, pkgerrors.IsNotFound(err))

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFitRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	dataRepo := NewDataRepository(store)
	fitRepo := NewFitRepository(store)

	d := sampleDataset(t, 7.45)
	require.NoError(t, dataRepo.Save(ctx, d))
	fit := sampleFit(t, d, "first")
	require.NoError(t, fitRepo.Save(ctx, fit))

	got, err := fitRepo.GetByID(ctx, fit.ID())
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name())
	assert.Equal(t, "n", got.Notes())
	assert.Equal(t, valueobjects.FitterNMR1to1, got.Fitter())
	assert.Equal(t, []float64{100}, got.ParamsGuess())
	assert.Equal(t, []float64{987.6}, got.Params())
	assert.Equal(t, fit.Y(), got.Y())
	assert.Equal(t, fit.Coeffs(), got.Coeffs())
	assert.Equal(t, 1.5e-4, got.RSS())

	err = fitRepo.Save(ctx, fit)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))
}

func TestFitRepository_RequiresDataset(t *testing.T) {
	ctx := context.Background()
	fitRepo := NewFitRepository(openStore(t))

	err := fitRepo.Save(ctx, sampleFit(t, sampleDataset(t, 7.45), "orphan"))
	assert.Error(t, err)
}

func TestFitRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	dataRepo := NewDataRepository(store)
	fitRepo := NewFitRepository(store)

	a := sampleDataset(t, 7.45)
	b := sampleDataset(t, 7.50)
	require.NoError(t, dataRepo.Save(ctx, a))
	require.NoError(t, dataRepo.Save(ctx, b))

	first := sampleFit(t, a, "first")
	require.NoError(t, fitRepo.Save(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := sampleFit(t, a, "second")
	require.NoError(t, fitRepo.Save(ctx, second))
	require.NoError(t, fitRepo.Save(ctx, sampleFit(t, b, "other")))

	all, err := fitRepo.List(ctx, ports.FitFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forA, err := fitRepo.List(ctx, ports.FitFilter{DataID: a.ID()})
	require.NoError(t, err)
	require.Len(t, forA, 2)
	assert.Equal(t, "second", forA[0].Name())
	assert.Equal(t, "first", forA[1].Name())

	limited, err := fitRepo.List(ctx, ports.FitFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, fitRepo.Delete(ctx, first.ID()))
	_, err = fitRepo.GetByID(ctx, first.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.True(t, pkgerrors.IsNotFound(fitRepo.Delete(ctx, first.ID())))
}

func TestStore_FileAndPing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindfit.db")
	store, err := Open(path)
	require.NoError(t, err)

	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, path, store.Path())

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}

func TestStore_MigratesOnceToLatest(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "migrate.db")

	store, err := Open(path)
	require.NoError(t, err)
	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, latestVersion(), version)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	version, err = reopened.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, latestVersion(), version)
}

func TestStore_RejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "future.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, "PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}
