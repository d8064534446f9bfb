package commands

import (
	pkgerrors "supramolecular/pkg/errors"
	"supramolecular/pkg/utils"
)

// SaveFitCommand runs a fit against a stored dataset and persists the result
// under FitID, which the caller generates so it can return it.
type SaveFitCommand struct {
	FitID       string    `json:"fit_id" validate:"required,uuid"`
	Name        string    `json:"name"`
	Notes       string    `json:"notes"`
	DataID      string    `json:"data_id" validate:"required,len=40,hexadecimal"`
	Fitter      string    `json:"fitter" validate:"required,oneof=nmr1to1 nmr1to2 uv1to1 uv1to2"`
	ParamsGuess []float64 `json:"params" validate:"required,min=1,max=10,dive,gt=0"`
}

// Validate validates the SaveFitCommand
func (c SaveFitCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
