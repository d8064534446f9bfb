package queries

import (
	"time"

	"supramolecular/domain/core/entities"
	"supramolecular/domain/fitting"
)

// DataView is a stored dataset and its derived arrays
type DataView struct {
	ID        string           `json:"id"`
	Data      entities.Derived `json:"data"`
	CreatedAt time.Time        `json:"created_at"`
}

// ParamView is a single binding constant
type ParamView struct {
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value"`
}

// FitCurves holds the fitted responses and the quantities behind them
type FitCurves struct {
	Y        [][]float64 `json:"y"`
	Coeffs   [][]float64 `json:"coeffs"`
	Molefrac [][]float64 `json:"molefrac"`
}

// FitResultView is the outcome of a fit together with the data it was fitted to
type FitResultView struct {
	Fitter          string           `json:"fitter"`
	DataID          string           `json:"data_id"`
	Data            entities.Derived `json:"data"`
	Fit             FitCurves        `json:"fit"`
	Params          []ParamView      `json:"params"`
	Residuals       [][]float64      `json:"residuals"`
	RSS             float64          `json:"rss"`
	Iterations      int              `json:"iterations,omitempty"`
	FuncEvaluations int              `json:"func_evaluations,omitempty"`
	Status          string           `json:"status,omitempty"`
	TimeSeconds     float64          `json:"time,omitempty"`
}

// FitMetadataView is the user description of a saved fit
type FitMetadataView struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// FitOptionsView is what a fit was started from
type FitOptionsView struct {
	Fitter string      `json:"fitter"`
	DataID string      `json:"data_id"`
	Params []ParamView `json:"params"`
}

// FitView is a saved fit in the shape the Bindfit client loads
type FitView struct {
	ID        string          `json:"id"`
	Metadata  FitMetadataView `json:"metadata"`
	Options   FitOptionsView  `json:"options"`
	Result    *FitResultView  `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// FitSummaryView is a row of a fit listing
type FitSummaryView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	DataID    string      `json:"data_id"`
	Fitter    string      `json:"fitter"`
	Params    []ParamView `json:"params"`
	RSS       float64     `json:"rss"`
	CreatedAt time.Time   `json:"created_at"`
}

// FitListView is a page of fit summaries
type FitListView struct {
	Fits  []FitSummaryView `json:"fits"`
	Count int              `json:"count"`
}

// FitterView describes a binding model
type FitterView struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	Stoichiometry string   `json:"stoichiometry"`
	Params        []string `json:"params"`
}

// SimulationView is a Bindsim speciation curve
type SimulationView struct {
	Fitter   string      `json:"fitter"`
	Params   []ParamView `json:"params"`
	H0       []float64   `json:"h0"`
	G0       []float64   `json:"g0"`
	Geq      []float64   `json:"geq"`
	Molefrac [][]float64 `json:"molefrac"`
}

// NewDataView builds a DataView
func NewDataView(data *entities.Dataset) *DataView {
	return &DataView{
		ID:        data.ID().String(),
		Data:      data.Derived(),
		CreatedAt: data.CreatedAt(),
	}
}

// NewFitResultView builds the view of a fresh optimisation
func NewFitResultView(data *entities.Dataset, f *fitting.Function, res *fitting.Result) *FitResultView {
	return &FitResultView{
		Fitter: f.Name.String(),
		DataID: data.ID().String(),
		Data:   data.Derived(),
		Fit: FitCurves{
			Y:        res.Fit,
			Coeffs:   res.Coeffs,
			Molefrac: res.Molefrac,
		},
		Params:          NamedParams(f, res.Params),
		Residuals:       res.Residuals,
		RSS:             res.RSS,
		Iterations:      res.Iterations,
		FuncEvaluations: res.FuncEvaluations,
		Status:          res.Status,
		TimeSeconds:     res.Duration.Seconds(),
	}
}

// NewFitView builds the view of a saved fit. eval is the linear step
// recomputed at the saved constants.
func NewFitView(fit *entities.Fit, data *entities.Dataset, f *fitting.Function, eval *fitting.LstsqResult) *FitView {
	result := &FitResultView{
		Fitter: fit.Fitter().String(),
		DataID: data.ID().String(),
		Data:   data.Derived(),
		Fit: FitCurves{
			Y:        fit.Y(),
			Coeffs:   fit.Coeffs(),
			Molefrac: eval.Molefrac,
		},
		Params:    NamedParams(f, fit.Params()),
		Residuals: residuals(fit.Y(), data.Y()),
		RSS:       fit.RSS(),
	}

	return &FitView{
		ID: fit.ID().String(),
		Metadata: FitMetadataView{
			Name:  fit.Name(),
			Notes: fit.Notes(),
		},
		Options: FitOptionsView{
			Fitter: fit.Fitter().String(),
			DataID: fit.DataID().String(),
			Params: NamedParams(nil, fit.ParamsGuess()),
		},
		Result:    result,
		CreatedAt: fit.CreatedAt(),
	}
}

// NewFitSummaryView builds a listing row
func NewFitSummaryView(fit *entities.Fit) FitSummaryView {
	return FitSummaryView{
		ID:        fit.ID().String(),
		Name:      fit.Name(),
		DataID:    fit.DataID().String(),
		Fitter:    fit.Fitter().String(),
		Params:    NamedParams(nil, fit.Params()),
		RSS:       fit.RSS(),
		CreatedAt: fit.CreatedAt(),
	}
}

// NewFitterView describes f
func NewFitterView(f *fitting.Function) FitterView {
	return FitterView{
		Name:          f.Name.String(),
		Kind:          string(f.Kind),
		Stoichiometry: f.Stoichiometry,
		Params:        f.ParamNames,
	}
}

// NamedParams pairs values with the parameter names of f. f may be nil.
func NamedParams(f *fitting.Function, values []float64) []ParamView {
	out := make([]ParamView, len(values))
	for i, v := range values {
		out[i] = ParamView{Value: v}
		if f != nil && i < len(f.ParamNames) {
			out[i].Name = f.ParamNames[i]
		}
	}
	return out
}

// ParamValues extracts the values of ps
func ParamValues(ps []ParamView) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}

func residuals(fit, y [][]float64) [][]float64 {
	out := make([][]float64, len(fit))
	for c := range fit {
		out[c] = make([]float64, len(fit[c]))
		for i := range fit[c] {
			if c < len(y) && i < len(y[c]) {
				out[c][i] = fit[c][i] - y[c][i]
			}
		}
	}
	return out
}
