package handlers

import (
	"context"
	"fmt"
	"time"

	"supramolecular/application/commands"
	"supramolecular/application/ports"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/events"
	pkgerrors "supramolecular/pkg/errors"
	"go.uber.org/zap"
)

// DeleteFitHandler removes saved fits
type DeleteFitHandler struct {
	fitRepo        ports.FitRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewDeleteFitHandler creates a new handler instance
func NewDeleteFitHandler(
	fitRepo ports.FitRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteFitHandler {
	return &DeleteFitHandler{
		fitRepo:        fitRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle deletes the fit
func (h *DeleteFitHandler) Handle(ctx context.Context, cmd commands.DeleteFitCommand) error {
	fitID, err := valueobjects.NewFitIDFromString(cmd.FitID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	if err := h.fitRepo.Delete(ctx, fitID); err != nil {
		return fmt.Errorf("failed to delete fit: %w", err)
	}

	if err := h.eventPublisher.Publish(ctx, events.NewFitDeleted(fitID, time.Now().UTC())); err != nil {
		h.logger.Warn("Failed to publish deletion event", zap.Error(err))
	}

	h.logger.Info("Fit deleted", zap.String("fitID", fitID.String()))
	return nil
}
