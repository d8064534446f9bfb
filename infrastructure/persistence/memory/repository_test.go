package memory

import (
	"context"
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

func dataset(t *testing.T, last float64) *entities.Dataset {
	t.Helper()
	d, err := entities.NewDataset([]float64{1, 1}, []float64{0, 1}, [][]float64{{0, last}})
	require.NoError(t, err)
	return d
}

func fitFor(t *testing.T, d *entities.Dataset) *entities.Fit {
	t.Helper()
	fit, err := entities.NewFit(valueobjects.NewFitID(), entities.FitMetadata{}, d,
		valueobjects.FitterUV1to1, 1, []float64{10},
		entities.FitOutcome{Params: []float64{12}, Y: [][]float64{{0, 1}}},
		config.DefaultDomainConfig())
	require.NoError(t, err)
	return fit
}

func TestDataRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDataRepository()
	d := dataset(t, 1)

	require.NoError(t, repo.Save(ctx, d))
	require.NoError(t, repo.Save(ctx, dataset(t, 1)))

	got, err := repo.GetByID(ctx, d.ID())
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = repo.GetByID(ctx, dataset(t, 2).ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestFitRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFitRepository()
	a, b := dataset(t, 1), dataset(t, 2)

	older := fitFor(t, a)
	time.Sleep(time.Millisecond)
	newer := fitFor(t, a)
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, fitFor(t, b)))
	assert.Error(t, repo.Save(ctx, older))

	list, err := repo.List(ctx, ports.FitFilter{DataID: a.ID()})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Same(t, newer, list[0])

	list, err = repo.List(ctx, ports.FitFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, older.ID()))
	assert.True(t, pkgerrors.IsNotFound(repo.Delete(ctx, older.ID())))
}
