package handlers

import (
	"context"
	"fmt"

	"supramolecular/application/commands"
	"supramolecular/application/ports"
	"supramolecular/domain/config"
	"go.uber.org/zap"
)

// UploadDataHandler stores titration datasets
type UploadDataHandler struct {
	dataRepo       ports.DataRepository
	eventPublisher ports.EventPublisher
	metrics        ports.Metrics
	config         *config.DomainConfig
	logger         *zap.Logger
}

// NewUploadDataHandler creates a new handler instance
func NewUploadDataHandler(
	dataRepo ports.DataRepository,
	eventPublisher ports.EventPublisher,
	metrics ports.Metrics,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *UploadDataHandler {
	return &UploadDataHandler{
		dataRepo:       dataRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		config:         cfg,
		logger:         logger,
	}
}

// Handle stores the dataset unless identical data is already present
func (h *UploadDataHandler) Handle(ctx context.Context, cmd commands.UploadDataCommand) error {
	data := cmd.Dataset
	if err := data.CheckLimits(h.config); err != nil {
		return err
	}

	exists, err := h.dataRepo.Exists(ctx, data.ID())
	if err != nil {
		return fmt.Errorf("failed to check dataset: %w", err)
	}
	if exists {
		h.logger.Debug("Dataset already stored",
			zap.String("dataID", data.ID().String()),
		)
		data.MarkEventsAsCommitted()
		return nil
	}

	if err := h.dataRepo.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	h.metrics.Increment(ports.MetricDatasetsUploaded, "")

	events := data.GetUncommittedEvents()
	if len(events) > 0 {
		if err := h.eventPublisher.PublishBatch(ctx, events); err != nil {
			// Log error but don't fail - the dataset is stored
			h.logger.Warn("Failed to publish dataset events",
				zap.Error(err),
				zap.String("dataID", data.ID().String()),
			)
		} else {
			data.MarkEventsAsCommitted()
		}
	}

	h.logger.Info("Dataset stored",
		zap.String("dataID", data.ID().String()),
		zap.Int("points", data.Points()),
		zap.Int("columns", data.Columns()),
	)
	return nil
}
