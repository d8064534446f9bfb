package fitting

import (
	"errors"
	"fmt"
	"math"

	"supramolecular/domain/core/valueobjects"

	"gonum.org/v1/gonum/mat"
)

// machineEpsilon scales the singular value cutoff used to decide the rank of
// the design matrix.
const machineEpsilon = 0x1p-52

// Kind is the spectroscopic technique an isotherm models.
type Kind string

const (
	KindNMR Kind = "nmr"
	KindUV  Kind = "uv"
)

// Input is the titration data a Function is evaluated against.
type Input struct {
	H0 []float64
	G0 []float64
	Y  [][]float64
}

// Validate checks the shape of the input.
func (in Input) Validate() error {
	n := len(in.H0)
	if n < 2 {
		return errors.New("at least two titration points are required")
	}
	if len(in.G0) != n {
		return fmt.Errorf("g0 has %d points, h0 has %d", len(in.G0), n)
	}
	if len(in.Y) == 0 {
		return errors.New("at least one response column is required")
	}
	for c, col := range in.Y {
		if len(col) != n {
			return fmt.Errorf("response column %d has %d points, expected %d", c, len(col), n)
		}
	}
	return nil
}

// Function couples an isotherm with its parameter metadata.
type Function struct {
	Name          valueobjects.FitterName
	Kind          Kind
	Stoichiometry string
	ParamNames    []string
	isotherm      Isotherm
}

// NewFunction creates a Function
func NewFunction(name valueobjects.FitterName, kind Kind, stoichiometry string, paramNames []string, isotherm Isotherm) *Function {
	return &Function{
		Name:          name,
		Kind:          kind,
		Stoichiometry: stoichiometry,
		ParamNames:    paramNames,
		isotherm:      isotherm,
	}
}

// ParamCount returns the number of binding constants the model takes.
func (f *Function) ParamCount() int {
	return len(f.ParamNames)
}

// Molefrac evaluates the isotherm.
func (f *Function) Molefrac(k, h0, g0 []float64) (*mat.Dense, error) {
	return f.isotherm(k, h0, g0)
}

// LstsqResult is the outcome of solving the linear step for a fixed k.
type LstsqResult struct {
	// Fit and Residuals are column-major like Input.Y.
	Fit       [][]float64
	Residuals [][]float64
	// Coeffs[c][s] is the response of species s in column c.
	Coeffs [][]float64
	// Molefrac[s][i] is species s at titration point i.
	Molefrac [][]float64
	RSS      float64
}

// Lstsq solves the response coefficients for binding constants k by linear
// least squares over all response columns at once.
func (f *Function) Lstsq(k []float64, in Input) (*LstsqResult, error) {
	molefrac, err := f.isotherm(k, in.H0, in.G0)
	if err != nil {
		return nil, err
	}

	n, m := molefrac.Dims()
	cols := len(in.Y)

	yn := Normalise(in.Y)
	b := mat.NewDense(n, cols, nil)
	for c := range yn {
		for i, v := range yn[c] {
			b.Set(i, c, v)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(molefrac, mat.SVDThin); !ok {
		return nil, errors.New("SVD of design matrix failed")
	}
	rank := svd.Rank(machineEpsilon * float64(max(n, m)))
	if rank == 0 {
		return nil, errors.New("design matrix is zero for these binding constants")
	}

	var coeffs mat.Dense
	svd.SolveTo(&coeffs, b, rank)

	var fitNorm mat.Dense
	fitNorm.Mul(molefrac, &coeffs)

	fitNormCols := make([][]float64, cols)
	for c := 0; c < cols; c++ {
		fitNormCols[c] = mat.Col(nil, c, &fitNorm)
	}
	fit := Denormalise(in.Y, fitNormCols)

	residuals := make([][]float64, cols)
	var rss float64
	for c := range fit {
		residuals[c] = make([]float64, n)
		for i := range fit[c] {
			r := fit[c][i] - in.Y[c][i]
			residuals[c][i] = r
			rss += r * r
		}
	}
	if math.IsNaN(rss) || math.IsInf(rss, 0) {
		return nil, errors.New("residual sum of squares is not finite")
	}

	coeffRows := make([][]float64, cols)
	for c := 0; c < cols; c++ {
		coeffRows[c] = mat.Col(nil, c, &coeffs)
	}
	species := make([][]float64, m)
	for s := 0; s < m; s++ {
		species[s] = mat.Col(nil, s, molefrac)
	}

	return &LstsqResult{
		Fit:       fit,
		Residuals: residuals,
		Coeffs:    coeffRows,
		Molefrac:  species,
		RSS:       rss,
	}, nil
}

// Objective returns the residual sum of squares for k, used while optimising.
func (f *Function) Objective(k []float64, in Input) (float64, error) {
	res, err := f.Lstsq(k, in)
	if err != nil {
		return 0, err
	}
	return res.RSS, nil
}
