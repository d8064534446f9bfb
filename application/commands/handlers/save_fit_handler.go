package handlers

import (
	"context"
	"fmt"

	"supramolecular/application/commands"
	"supramolecular/application/ports"
	"supramolecular/application/services"
	"supramolecular/domain/config"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"
	"go.uber.org/zap"
)

// SaveFitHandler optimises a fit and persists it
type SaveFitHandler struct {
	dataRepo       ports.DataRepository
	fitRepo        ports.FitRepository
	fitService     *services.FitService
	eventPublisher ports.EventPublisher
	metrics        ports.Metrics
	config         *config.DomainConfig
	logger         *zap.Logger
}

// NewSaveFitHandler creates a new handler instance
func NewSaveFitHandler(
	dataRepo ports.DataRepository,
	fitRepo ports.FitRepository,
	fitService *services.FitService,
	eventPublisher ports.EventPublisher,
	metrics ports.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *SaveFitHandler {
	return &SaveFitHandler{
		dataRepo:       dataRepo,
		fitRepo:        fitRepo,
		fitService:     fitService,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		config:         cfg,
		logger:         logger,
	}
}

// Handle runs the fit and saves it under cmd.FitID
func (h *SaveFitHandler) Handle(ctx context.Context, cmd commands.SaveFitCommand) error {
	fitID, err := valueobjects.NewFitIDFromString(cmd.FitID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	dataID, err := valueobjects.NewDataIDFromString(cmd.DataID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	fitter, err := valueobjects.ParseFitterName(cmd.Fitter)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	data, err := h.dataRepo.GetByID(ctx, dataID)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	result, err := h.fitService.Fit(ctx, fitter, data, cmd.ParamsGuess)
	if err != nil {
		return err
	}

	fit, err := entities.NewFit(
		fitID,
		entities.FitMetadata{Name: cmd.Name, Notes: cmd.Notes},
		data,
		fitter,
		len(result.Params),
		cmd.ParamsGuess,
		entities.FitOutcome{
			Params: result.Params,
			Y:      result.Fit,
			Coeffs: result.Coeffs,
			RSS:    result.RSS,
		},
		h.config,
	)
	if err != nil {
		return err
	}

	if err := h.fitRepo.Save(ctx, fit); err != nil {
		return fmt.Errorf("failed to save fit: %w", err)
	}
	h.metrics.Increment(ports.MetricFitsSaved, fitter.String())

	events := fit.GetUncommittedEvents()
	if len(events) > 0 {
		if err := h.eventPublisher.PublishBatch(ctx, events); err != nil {
			h.logger.Warn("Failed to publish fit events",
				zap.Error(err),
				zap.String("fitID", fit.ID().String()),
			)
		} else {
			fit.MarkEventsAsCommitted()
		}
	}

	h.logger.Info("Fit saved",
		zap.String("fitID", fit.ID().String()),
		zap.String("dataID", dataID.String()),
		zap.String("fitter", fitter.String()),
	)
	return nil
}
