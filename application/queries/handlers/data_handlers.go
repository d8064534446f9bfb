package handlers

import (
	"context"
	"fmt"

	"supramolecular/application/ports"
	"supramolecular/application/queries"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"
)

// GetDataHandler serves stored datasets
type GetDataHandler struct {
	dataRepo ports.DataRepository
}

// NewGetDataHandler creates a new handler instance
func NewGetDataHandler(dataRepo ports.DataRepository) *GetDataHandler {
	return &GetDataHandler{dataRepo: dataRepo}
}

// Handle executes the query
func (h *GetDataHandler) Handle(ctx context.Context, query queries.GetDataQuery) (*queries.DataView, error) {
	dataID, err := valueobjects.NewDataIDFromString(query.DataID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	data, err := h.dataRepo.GetByID(ctx, dataID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return queries.NewDataView(data), nil
}
