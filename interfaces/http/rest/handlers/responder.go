package handlers

import (
	"net/http"

	"supramolecular/pkg/common"
	pkgerrors "supramolecular/pkg/errors"

	"go.uber.org/zap"
)

// maxJSONBody bounds JSON request bodies; datasets arrive through /data
const maxJSONBody = 1 << 20

// ParamRequest is a binding constant as the Bindfit client sends it
type ParamRequest struct {
	Value float64 `json:"value"`
}

func paramValues(ps []ParamRequest) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}

type responder struct {
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h responder) respondError(w http.ResponseWriter, r *http.Request, err error) {
	h.errors.Handle(w, r, err)
}
