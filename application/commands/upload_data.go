package commands

import (
	"supramolecular/domain/core/entities"
	pkgerrors "supramolecular/pkg/errors"
)

// UploadDataCommand stores a parsed titration dataset. Uploading identical
// data again resolves to the existing record.
type UploadDataCommand struct {
	Dataset *entities.Dataset
}

// Validate validates the UploadDataCommand
func (c UploadDataCommand) Validate() error {
	if c.Dataset == nil {
		return pkgerrors.NewValidationError("dataset is required")
	}
	return nil
}
