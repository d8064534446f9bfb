package handlers

import (
	"net/http"

	"supramolecular/application/commands"
	"supramolecular/application/commands/bus"
	"supramolecular/application/queries"
	querybus "supramolecular/application/queries/bus"
	"supramolecular/pkg/common"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FitHandler handles fitting and saved fits
type FitHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
}

// NewFitHandler creates a new fit handler
func NewFitHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *FitHandler {
	return &FitHandler{
		responder:  responder{errors: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
	}
}

// FitOptionsRequest selects the fitter, dataset and initial guess
type FitOptionsRequest struct {
	Fitter string         `json:"fitter"`
	DataID string         `json:"data_id"`
	Params []ParamRequest `json:"params"`
}

// SaveFitRequest is the body of POST /fits
type SaveFitRequest struct {
	Metadata struct {
		Name  string `json:"name"`
		Notes string `json:"notes"`
	} `json:"metadata"`
	Options FitOptionsRequest `json:"options"`
}

// RunFit handles POST /fit
func (h *FitHandler) RunFit(w http.ResponseWriter, r *http.Request) {
	var req FitOptionsRequest
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := querybus.Ask[*queries.FitResultView](r.Context(), h.queryBus, queries.RunFitQuery{
		DataID: req.DataID,
		Fitter: req.Fitter,
		Params: paramValues(req.Params),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// SaveFit handles POST /fits
func (h *FitHandler) SaveFit(w http.ResponseWriter, r *http.Request) {
	var req SaveFitRequest
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		h.respondError(w, r, err)
		return
	}

	fitID := uuid.New().String()
	cmd := commands.SaveFitCommand{
		FitID:       fitID,
		Name:        req.Metadata.Name,
		Notes:       req.Metadata.Notes,
		DataID:      req.Options.DataID,
		Fitter:      req.Options.Fitter,
		ParamsGuess: paramValues(req.Options.Params),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	view, err := querybus.Ask[*queries.FitView](r.Context(), h.queryBus, queries.GetFitQuery{FitID: fitID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.logger.Info("Fit saved",
		zap.String("fitID", fitID),
		zap.String("dataID", cmd.DataID),
		zap.String("fitter", cmd.Fitter),
	)
	w.Header().Set("Location", "/api/v1/fits/"+fitID)
	h.respondJSON(w, http.StatusCreated, view)
}

// ListFits handles GET /fits
func (h *FitHandler) ListFits(w http.ResponseWriter, r *http.Request) {
	limit, err := common.ExtractLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := querybus.Ask[*queries.FitListView](r.Context(), h.queryBus, queries.ListFitsQuery{
		DataID: r.URL.Query().Get("data_id"),
		Limit:  limit,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// GetFit handles GET /fits/{fitID}
func (h *FitHandler) GetFit(w http.ResponseWriter, r *http.Request) {
	view, err := querybus.Ask[*queries.FitView](r.Context(), h.queryBus, queries.GetFitQuery{FitID: chi.URLParam(r, "fitID")})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// DeleteFit handles DELETE /fits/{fitID}
func (h *FitHandler) DeleteFit(w http.ResponseWriter, r *http.Request) {
	if err := h.commandBus.Send(r.Context(), commands.DeleteFitCommand{FitID: chi.URLParam(r, "fitID")}); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
