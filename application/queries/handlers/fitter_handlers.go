package handlers

import (
	"context"

	"supramolecular/application/queries"
	"supramolecular/domain/config"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/fitting"
	pkgerrors "supramolecular/pkg/errors"
)

// ListFittersHandler describes the registered binding models
type ListFittersHandler struct {
	registry *fitting.Registry
}

// NewListFittersHandler creates a new handler instance
func NewListFittersHandler(registry *fitting.Registry) *ListFittersHandler {
	return &ListFittersHandler{registry: registry}
}

// Handle executes the query
func (h *ListFittersHandler) Handle(ctx context.Context, query queries.ListFittersQuery) ([]queries.FitterView, error) {
	functions := h.registry.List()
	out := make([]queries.FitterView, 0, len(functions))
	for _, f := range functions {
		out = append(out, queries.NewFitterView(f))
	}
	return out, nil
}

// SimulateHandler computes Bindsim speciation curves
type SimulateHandler struct {
	registry *fitting.Registry
	config   *config.DomainConfig
}

// NewSimulateHandler creates a new handler instance
func NewSimulateHandler(registry *fitting.Registry, cfg *config.DomainConfig) *SimulateHandler {
	return &SimulateHandler{
		registry: registry,
		config:   cfg,
	}
}

// Handle executes the query
func (h *SimulateHandler) Handle(ctx context.Context, query queries.SimulateQuery) (*queries.SimulationView, error) {
	if len(query.H0) > h.config.MaxSimulationPoints {
		return nil, pkgerrors.NewValidationErrorf("simulation has %d points, the limit is %d", len(query.H0), h.config.MaxSimulationPoints)
	}

	name, err := valueobjects.ParseFitterName(query.Fitter)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	f, err := h.registry.Select(name)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	sim, err := f.Simulate(query.Params, query.H0, query.G0)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	return &queries.SimulationView{
		Fitter:   name.String(),
		Params:   queries.NamedParams(f, query.Params),
		H0:       sim.H0,
		G0:       sim.G0,
		Geq:      sim.Geq,
		Molefrac: sim.Molefrac,
	}, nil
}
