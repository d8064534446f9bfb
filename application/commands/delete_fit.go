package commands

import (
	pkgerrors "supramolecular/pkg/errors"
	"supramolecular/pkg/utils"
)

// DeleteFitCommand removes a saved fit
type DeleteFitCommand struct {
	FitID string `json:"fit_id" validate:"required,uuid"`
}

// Validate validates the DeleteFitCommand
func (c DeleteFitCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
