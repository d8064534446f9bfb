package services

import (
	"context"
	"math"
	"testing"
	"time"

	"supramolecular/domain/config"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/fitting"
	"supramolecular/infrastructure/observability"
	pkgerrors "supramolecular/pkg/errors"
	pkgobservability "supramolecular/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func uvTitration(t *testing.T, k float64) *entities.Dataset {
	t.Helper()
	const h0 = 1e-4
	n := 15
	hs := make([]float64, n)
	gs := make([]float64, n)
	y1 := make([]float64, n)
	y2 := make([]float64, n)
	for i := 0; i < n; i++ {
		g0 := float64(i) * 2e-4
		s := h0 + g0 + 1/k
		hg := (s - math.Sqrt(s*s-4*h0*g0)) / 2
		hs[i], gs[i] = h0, g0
		y1[i] = 0.2 + 900*hg
		y2[i] = 0.5 - 1500*hg
	}
	data, err := entities.NewDataset(hs, gs, [][]float64{y1, y2})
	require.NoError(t, err)
	return data
}

func newService(cfg *config.DomainConfig) *FitService {
	return NewFitService(
		fitting.DefaultRegistry(),
		cfg,
		pkgobservability.NewTracer("test", false),
		observability.NopMetrics{},
		zap.NewNop(),
	)
}

func TestFitService_Fit_RecoversConstant(t *testing.T) {
	s := newService(config.DefaultDomainConfig())
	data := uvTitration(t, 5000)

	result, err := s.Fit(context.Background(), valueobjects.FitterUV1to1, data, []float64{100})

	require.NoError(t, err)
	assert.InEpsilon(t, 5000, result.Params[0], 1e-2)
	assert.Len(t, result.Fit, 2)
	assert.Equal(t, []float64{100}, result.ParamsGuess)
}

func TestFitService_Fit_WrongParamCount(t *testing.T) {
	s := newService(config.DefaultDomainConfig())

	_, err := s.Fit(context.Background(), valueobjects.FitterUV1to2, uvTitration(t, 5000), []float64{100})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestFitService_Fit_Timeout(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.FitTimeout = time.Nanosecond
	s := newService(cfg)

	_, err := s.Fit(context.Background(), valueobjects.FitterUV1to1, uvTitration(t, 5000), []float64{100})

	assert.True(t, pkgerrors.IsTimeout(err))
}

func TestFitService_Fit_Cancelled(t *testing.T) {
	s := newService(config.DefaultDomainConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Fit(ctx, valueobjects.FitterUV1to1, uvTitration(t, 5000), []float64{100})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFitService_Evaluate(t *testing.T) {
	s := newService(config.DefaultDomainConfig())
	data := uvTitration(t, 5000)

	res, err := s.Evaluate(valueobjects.FitterUV1to1, data, []float64{5000})
	require.NoError(t, err)
	assert.Less(t, res.RSS, 1e-10)

	_, err = s.Evaluate("itc", data, []float64{5000})
	assert.True(t, pkgerrors.IsValidation(err))
}
