package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleParam struct {
	Value float64 `json:"value" validate:"gt=0"`
}

type sampleRequest struct {
	Fitter string        `json:"fitter" validate:"required,oneof=nmr1to1 uv1to1"`
	DataID string        `json:"data_id" validate:"required,len=40,hexadecimal"`
	Params []sampleParam `json:"params" validate:"required,min=1,max=2,dive"`
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	err := ValidateStruct(sampleRequest{
		Fitter: "nmr9to9",
		DataID: "abc",
		Params: []sampleParam{{Value: -1}},
	})

	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "fitter must be one of: nmr1to1 uv1to1")
		assert.Contains(t, err.Error(), "data_id must have length 40")
		assert.Contains(t, err.Error(), "params[0].value must be greater than 0")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(sampleRequest{
		Fitter: "uv1to1",
		DataID: "0123456789abcdef0123456789abcdef01234567",
		Params: []sampleParam{{Value: 1000}},
	})
	assert.NoError(t, err)
}
