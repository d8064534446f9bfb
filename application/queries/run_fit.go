package queries

import (
	"strconv"
	"strings"
)

// RunFitQuery optimises a fitter against a stored dataset without saving
// the result. Identical queries are served from cache.
type RunFitQuery struct {
	DataID string    `json:"data_id" validate:"required,len=40,hexadecimal"`
	Fitter string    `json:"fitter" validate:"required,oneof=nmr1to1 nmr1to2 uv1to1 uv1to2"`
	Params []float64 `json:"params" validate:"required,min=1,max=10,dive,gt=0"`
}

// Validate validates the RunFitQuery
func (q RunFitQuery) Validate() error {
	return validate(q)
}

// CacheKey identifies the fit by its inputs
func (q RunFitQuery) CacheKey() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(q.DataID))
	b.WriteByte('|')
	b.WriteString(q.Fitter)
	for _, p := range q.Params {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
	}
	return b.String()
}
