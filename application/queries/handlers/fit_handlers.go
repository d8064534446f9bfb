package handlers

import (
	"context"
	"fmt"

	"supramolecular/application/ports"
	"supramolecular/application/queries"
	"supramolecular/application/services"
	"supramolecular/domain/config"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"
	"go.uber.org/zap"
)

// RunFitHandler optimises a fit without saving it
type RunFitHandler struct {
	dataRepo   ports.DataRepository
	fitService *services.FitService
	logger     *zap.Logger
}

// NewRunFitHandler creates a new handler instance
func NewRunFitHandler(dataRepo ports.DataRepository, fitService *services.FitService, logger *zap.Logger) *RunFitHandler {
	return &RunFitHandler{
		dataRepo:   dataRepo,
		fitService: fitService,
		logger:     logger,
	}
}

// Handle executes the query
func (h *RunFitHandler) Handle(ctx context.Context, query queries.RunFitQuery) (*queries.FitResultView, error) {
	dataID, err := valueobjects.NewDataIDFromString(query.DataID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	fitter, err := valueobjects.ParseFitterName(query.Fitter)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	data, err := h.dataRepo.GetByID(ctx, dataID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	result, err := h.fitService.Fit(ctx, fitter, data, query.Params)
	if err != nil {
		return nil, err
	}

	f, err := h.fitService.Function(fitter, query.Params)
	if err != nil {
		return nil, err
	}
	return queries.NewFitResultView(data, f, result), nil
}

// GetFitHandler serves saved fits
type GetFitHandler struct {
	fitRepo    ports.FitRepository
	dataRepo   ports.DataRepository
	fitService *services.FitService
}

// NewGetFitHandler creates a new handler instance
func NewGetFitHandler(fitRepo ports.FitRepository, dataRepo ports.DataRepository, fitService *services.FitService) *GetFitHandler {
	return &GetFitHandler{
		fitRepo:    fitRepo,
		dataRepo:   dataRepo,
		fitService: fitService,
	}
}

// Handle executes the query
func (h *GetFitHandler) Handle(ctx context.Context, query queries.GetFitQuery) (*queries.FitView, error) {
	fitID, err := valueobjects.NewFitIDFromString(query.FitID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	fit, err := h.fitRepo.GetByID(ctx, fitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fit: %w", err)
	}

	data, err := h.dataRepo.GetByID(ctx, fit.DataID())
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset for fit: %w", err)
	}

	f, err := h.fitService.Function(fit.Fitter(), fit.Params())
	if err != nil {
		return nil, err
	}
	eval, err := h.fitService.Evaluate(fit.Fitter(), data, fit.Params())
	if err != nil {
		return nil, err
	}

	return queries.NewFitView(fit, data, f, eval), nil
}

// ListFitsHandler lists saved fits
type ListFitsHandler struct {
	fitRepo ports.FitRepository
	config  *config.DomainConfig
}

// NewListFitsHandler creates a new handler instance
func NewListFitsHandler(fitRepo ports.FitRepository, cfg *config.DomainConfig) *ListFitsHandler {
	return &ListFitsHandler{
		fitRepo: fitRepo,
		config:  cfg,
	}
}

// Handle executes the query
func (h *ListFitsHandler) Handle(ctx context.Context, query queries.ListFitsQuery) (*queries.FitListView, error) {
	filter := ports.FitFilter{Limit: query.Limit}
	if filter.Limit <= 0 {
		filter.Limit = h.config.DefaultListLimit
	}
	if filter.Limit > h.config.MaxListLimit {
		filter.Limit = h.config.MaxListLimit
	}
	if query.DataID != "" {
		dataID, err := valueobjects.NewDataIDFromString(query.DataID)
		if err != nil {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
		filter.DataID = dataID
	}

	fits, err := h.fitRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list fits: %w", err)
	}

	view := &queries.FitListView{Fits: make([]queries.FitSummaryView, 0, len(fits))}
	for _, fit := range fits {
		view.Fits = append(view.Fits, queries.NewFitSummaryView(fit))
	}
	view.Count = len(view.Fits)
	return view, nil
}
