package queries

// GetFitQuery fetches a saved fit in the shape the Bindfit client loads
type GetFitQuery struct {
	FitID string `json:"fit_id" validate:"required,uuid"`
}

// Validate validates the GetFitQuery
func (q GetFitQuery) Validate() error {
	return validate(q)
}

// ListFitsQuery lists saved fits, optionally for one dataset
type ListFitsQuery struct {
	DataID string `json:"data_id" validate:"omitempty,len=40,hexadecimal"`
	Limit  int    `json:"limit" validate:"gte=0,max=100"`
}

// Validate validates the ListFitsQuery
func (q ListFitsQuery) Validate() error {
	return validate(q)
}
