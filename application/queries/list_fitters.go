package queries

// ListFittersQuery describes the available binding models
type ListFittersQuery struct{}

// Validate validates the ListFittersQuery
func (q ListFittersQuery) Validate() error {
	return nil
}

// SimulateQuery evaluates a binding model at fixed constants (Bindsim)
type SimulateQuery struct {
	Fitter string    `json:"fitter" validate:"required,oneof=nmr1to1 nmr1to2 uv1to1 uv1to2"`
	Params []float64 `json:"params" validate:"required,min=1,max=10,dive,gt=0"`
	H0     []float64 `json:"h0" validate:"required,min=1,dive,gt=0"`
	G0     []float64 `json:"g0" validate:"required,min=1,dive,gte=0"`
}

// Validate validates the SimulateQuery
func (q SimulateQuery) Validate() error {
	if err := validate(q); err != nil {
		return err
	}
	if len(q.H0) != len(q.G0) {
		return validationErrorf("h0 has %d points but g0 has %d", len(q.H0), len(q.G0))
	}
	return nil
}
