package queries

import (
	pkgerrors "supramolecular/pkg/errors"
	"supramolecular/pkg/utils"
)

// GetDataQuery fetches a stored dataset with its derived arrays
type GetDataQuery struct {
	DataID string `json:"data_id" validate:"required,len=40,hexadecimal"`
}

// Validate validates the GetDataQuery
func (q GetDataQuery) Validate() error {
	return validate(q)
}

func validate(q interface{}) error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

func validationErrorf(format string, args ...interface{}) error {
	return pkgerrors.NewValidationErrorf(format, args...)
}
