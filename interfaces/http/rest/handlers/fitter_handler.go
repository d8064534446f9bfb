package handlers

import (
	"net/http"

	"supramolecular/application/queries"
	querybus "supramolecular/application/queries/bus"
	"supramolecular/pkg/common"
	pkgerrors "supramolecular/pkg/errors"

	"go.uber.org/zap"
)

// FitterHandler serves the fitter catalogue and Bindsim simulations
type FitterHandler struct {
	responder
	queryBus *querybus.QueryBus
}

// NewFitterHandler creates a new fitter handler
func NewFitterHandler(queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *FitterHandler {
	return &FitterHandler{
		responder: responder{errors: errs, logger: logger},
		queryBus:  queryBus,
	}
}

// SimulateRequest is the body of POST /sim
type SimulateRequest struct {
	Fitter string         `json:"fitter"`
	Params []ParamRequest `json:"params"`
	H0     []float64      `json:"h0"`
	G0     []float64      `json:"g0"`
}

// ListFitters handles GET /fitters
func (h *FitterHandler) ListFitters(w http.ResponseWriter, r *http.Request) {
	result, err := querybus.Ask[[]queries.FitterView](r.Context(), h.queryBus, queries.ListFittersQuery{})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// Simulate handles POST /sim
func (h *FitterHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := querybus.Ask[*queries.SimulationView](r.Context(), h.queryBus, queries.SimulateQuery{
		Fitter: req.Fitter,
		Params: paramValues(req.Params),
		H0:     req.H0,
		G0:     req.G0,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
