package handlers

import (
	"context"
	"errors"
	"math"
	"testing"

	"supramolecular/application/commands"
	"supramolecular/application/ports/mocks"
	"supramolecular/application/services"
	"supramolecular/domain/config"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/fitting"
	"supramolecular/infrastructure/observability"
	pkgerrors "supramolecular/pkg/errors"
	pkgobservability "supramolecular/pkg/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func titration(t *testing.T) *entities.Dataset {
	t.Helper()
	const k, h0 = 800.0, 1e-3
	n := 10
	hs := make([]float64, n)
	gs := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		g0 := float64(i) * 1e-3
		s := h0 + g0 + 1/k
		hg := (s - math.Sqrt(s*s-4*h0*g0)) / 2
		hs[i], gs[i], y[i] = h0, g0, 5.0+0.4*hg/h0
	}
	data, err := entities.NewDataset(hs, gs, [][]float64{y})
	require.NoError(t, err)
	return data
}

func fitService(cfg *config.DomainConfig) *services.FitService {
	return services.NewFitService(
		fitting.DefaultRegistry(),
		cfg,
		pkgobservability.NewTracer("test", false),
		observability.NopMetrics{},
		zap.NewNop(),
	)
}

func TestUploadDataHandler_Handle_NewDataset(t *testing.T) {
	// Arrange
	ctx := context.Background()
	dataRepo := new(mocks.MockDataRepository)
	publisher := new(mocks.MockEventPublisher)
	data := titration(t)

	dataRepo.On("Exists", ctx, data.ID()).Return(false, nil)
	dataRepo.On("Save", ctx, data).Return(nil)
	publisher.On("PublishBatch", ctx, mock.AnythingOfType("[]events.DomainEvent")).Return(nil)

	handler := NewUploadDataHandler(dataRepo, publisher, observability.NopMetrics{}, config.DefaultDomainConfig(), zap.NewNop())

	// Act
	err := handler.Handle(ctx, commands.UploadDataCommand{Dataset: data})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, data.GetUncommittedEvents())
	dataRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUploadDataHandler_Handle_ExistingDatasetIsNoop(t *testing.T) {
	ctx := context.Background()
	dataRepo := new(mocks.MockDataRepository)
	publisher := new(mocks.MockEventPublisher)
	data := titration(t)

	dataRepo.On("Exists", ctx, data.ID()).Return(true, nil)

	handler := NewUploadDataHandler(dataRepo, publisher, observability.NopMetrics{}, config.DefaultDomainConfig(), zap.NewNop())
	require.NoError(t, handler.Handle(ctx, commands.UploadDataCommand{Dataset: data}))

	dataRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestUploadDataHandler_Handle_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	dataRepo := new(mocks.MockDataRepository)
	publisher := new(mocks.MockEventPublisher)
	data := titration(t)

	dataRepo.On("Exists", ctx, data.ID()).Return(false, nil)
	dataRepo.On("Save", ctx, data).Return(nil)
	publisher.On("PublishBatch", ctx, mock.Anything).Return(errors.New("bus down"))

	handler := NewUploadDataHandler(dataRepo, publisher, observability.NopMetrics{}, config.DefaultDomainConfig(), zap.NewNop())
	require.NoError(t, handler.Handle(ctx, commands.UploadDataCommand{Dataset: data}))
	assert.NotEmpty(t, data.GetUncommittedEvents(), "events stay pending when publishing fails")
}

func TestUploadDataHandler_Handle_OverLimit(t *testing.T) {
	ctx := context.Background()
	dataRepo := new(mocks.MockDataRepository)
	cfg := config.DefaultDomainConfig()
	cfg.MaxDataPoints = 5

	handler := NewUploadDataHandler(dataRepo, new(mocks.MockEventPublisher), observability.NopMetrics{}, cfg, zap.NewNop())
	err := handler.Handle(ctx, commands.UploadDataCommand{Dataset: titration(t)})

	assert.True(t, pkgerrors.IsValidation(err))
	dataRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestSaveFitHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()
	dataRepo := new(mocks.MockDataRepository)
	fitRepo := new(mocks.MockFitRepository)
	publisher := new(mocks.MockEventPublisher)
	data := titration(t)
	fitID := uuid.New().String()

	dataRepo.On("GetByID", ctx, data.ID()).Return(data, nil)
	fitRepo.On("Save", ctx, mock.MatchedBy(func(f *entities.Fit) bool {
		return f.ID().String() == fitID && f.Name() == "run" && f.DataID().Equals(data.ID())
	})).Return(nil)
	publisher.On("PublishBatch", ctx, mock.AnythingOfType("[]events.DomainEvent")).Return(nil)

	handler := NewSaveFitHandler(dataRepo, fitRepo, fitService(cfg), publisher, observability.NopMetrics{}, cfg, zap.NewNop())

	// Act
	err := handler.Handle(ctx, commands.SaveFitCommand{
		FitID:       fitID,
		Name:        "run",
		DataID:      data.ID().String(),
		Fitter:      "nmr1to1",
		ParamsGuess: []float64{100},
	})

	// Assert
	require.NoError(t, err)
	dataRepo.AssertExpectations(t)
	fitRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	saved := fitRepo.Calls[0].Arguments.Get(1).(*entities.Fit)
	assert.InEpsilon(t, 800, saved.Params()[0], 1e-2)
}

func TestSaveFitHandler_Handle_MissingDataset(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()
	dataRepo := new(mocks.MockDataRepository)
	fitRepo := new(mocks.MockFitRepository)
	dataID := valueobjects.NewDataIDFromRows([][]float64{{1, 2, 3}})

	dataRepo.On("GetByID", ctx, dataID).Return(nil, pkgerrors.NewNotFoundError("dataset"))

	handler := NewSaveFitHandler(dataRepo, fitRepo, fitService(cfg), new(mocks.MockEventPublisher), observability.NopMetrics{}, cfg, zap.NewNop())
	err := handler.Handle(ctx, commands.SaveFitCommand{
		FitID:       uuid.New().String(),
		DataID:      dataID.String(),
		Fitter:      "nmr1to1",
		ParamsGuess: []float64{100},
	})

	assert.True(t, pkgerrors.IsNotFound(err))
	fitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaveFitHandler_Handle_WrongParamCount(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()
	dataRepo := new(mocks.MockDataRepository)
	data := titration(t)
	dataRepo.On("GetByID", ctx, data.ID()).Return(data, nil)

	handler := NewSaveFitHandler(dataRepo, new(mocks.MockFitRepository), fitService(cfg), new(mocks.MockEventPublisher), observability.NopMetrics{}, cfg, zap.NewNop())
	err := handler.Handle(ctx, commands.SaveFitCommand{
		FitID:       uuid.New().String(),
		DataID:      data.ID().String(),
		Fitter:      "nmr1to2",
		ParamsGuess: []float64{100},
	})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestSaveFitHandler_Handle_NameOverConfiguredLimit(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()
	cfg.MaxFitNameLength = 5
	dataRepo := new(mocks.MockDataRepository)
	fitRepo := new(mocks.MockFitRepository)
	data := titration(t)
	dataRepo.On("GetByID", ctx, data.ID()).Return(data, nil)

	cmd := commands.SaveFitCommand{
		FitID:       uuid.New().String(),
		Name:        "a name longer than five",
		DataID:      data.ID().String(),
		Fitter:      "nmr1to1",
		ParamsGuess: []float64{100},
	}
	require.NoError(t, cmd.Validate())

	handler := NewSaveFitHandler(dataRepo, fitRepo, fitService(cfg), new(mocks.MockEventPublisher), observability.NopMetrics{}, cfg, zap.NewNop())
	err := handler.Handle(ctx, cmd)

	assert.True(t, pkgerrors.IsValidation(err))
	fitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDeleteFitHandler_Handle(t *testing.T) {
	ctx := context.Background()
	fitRepo := new(mocks.MockFitRepository)
	publisher := new(mocks.MockEventPublisher)
	fitID := valueobjects.NewFitID()

	fitRepo.On("Delete", ctx, fitID).Return(nil)
	publisher.On("Publish", ctx, mock.AnythingOfType("events.FitDeleted")).Return(nil)

	handler := NewDeleteFitHandler(fitRepo, publisher, zap.NewNop())
	require.NoError(t, handler.Handle(ctx, commands.DeleteFitCommand{FitID: fitID.String()}))

	fitRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDeleteFitHandler_Handle_NotFound(t *testing.T) {
	ctx := context.Background()
	fitRepo := new(mocks.MockFitRepository)
	publisher := new(mocks.MockEventPublisher)
	fitID := valueobjects.NewFitID()

	fitRepo.On("Delete", ctx, fitID).Return(pkgerrors.NewNotFoundError("fit"))

	handler := NewDeleteFitHandler(fitRepo, publisher, zap.NewNop())
	err := handler.Handle(ctx, commands.DeleteFitCommand{FitID: fitID.String()})

	assert.True(t, pkgerrors.IsNotFound(err))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
