package fitting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"supramolecular/domain/core/valueobjects"

	"gonum.org/v1/gonum/optimize"
)

// Settings controls the Nelder-Mead search.
type Settings struct {
	MaxIterations         int
	MaxFuncEvaluations    int
	ConvergenceAbsolute   float64
	ConvergenceRelative   float64
	ConvergenceIterations int
	// SimplexSize is the initial simplex edge in decades of K.
	SimplexSize float64
}

// DefaultSettings returns the optimiser settings used by the API.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations:         2000,
		MaxFuncEvaluations:    10000,
		ConvergenceAbsolute:   0,
		ConvergenceRelative:   1e-10,
		ConvergenceIterations: 20,
		SimplexSize:           0.25,
	}
}

// Result is a complete fit.
type Result struct {
	Fitter          valueobjects.FitterName
	ParamsGuess     []float64
	Params          []float64
	Fit             [][]float64
	Residuals       [][]float64
	Coeffs          [][]float64
	Molefrac        [][]float64
	RSS             float64
	Iterations      int
	FuncEvaluations int
	Status          string
	Duration        time.Duration
}

// ErrParamCount is returned when the guess does not match the model.
var ErrParamCount = errors.New("wrong number of parameters for fitter")

// Fit optimises the binding constants starting from guess. The search runs in
// log10(K) so constants stay positive. Cancelling ctx stops the search at the
// next iteration and returns the context error.
func (f *Function) Fit(ctx context.Context, in Input, guess []float64, settings Settings) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if len(guess) != f.ParamCount() {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrParamCount, f.Name, f.ParamCount(), len(guess))
	}

	x0 := make([]float64, len(guess))
	for i, k := range guess {
		if !(k > 0) || math.IsInf(k, 0) {
			return nil, fmt.Errorf("initial guess %d must be positive and finite, got %g", i, k)
		}
		x0[i] = math.Log10(k)
	}

	if _, err := f.Objective(guess, in); err != nil {
		return nil, fmt.Errorf("initial guess cannot be evaluated: %w", err)
	}

	start := time.Now()
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			rss, err := f.Objective(fromLog(x), in)
			if err != nil || math.IsNaN(rss) || math.IsInf(rss, 0) {
				return math.MaxFloat64
			}
			return rss
		},
	}

	opt := &optimize.Settings{
		MajorIterations: settings.MaxIterations,
		FuncEvaluations: settings.MaxFuncEvaluations,
		Converger: &contextConverger{
			ctx: ctx,
			inner: &optimize.FunctionConverge{
				Absolute:   settings.ConvergenceAbsolute,
				Relative:   settings.ConvergenceRelative,
				Iterations: settings.ConvergenceIterations,
			},
		},
	}
	method := &optimize.NelderMead{SimplexSize: settings.SimplexSize}

	res, err := optimize.Minimize(problem, x0, opt, method)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if res == nil {
		return nil, fmt.Errorf("optimisation failed: %w", err)
	}
	if err != nil && res.Status == optimize.Failure {
		return nil, fmt.Errorf("optimisation failed: %w", err)
	}

	params := fromLog(res.X)
	final, err := f.Lstsq(params, in)
	if err != nil {
		return nil, fmt.Errorf("evaluating optimised parameters: %w", err)
	}

	return &Result{
		Fitter:          f.Name,
		ParamsGuess:     append([]float64(nil), guess...),
		Params:          params,
		Fit:             final.Fit,
		Residuals:       final.Residuals,
		Coeffs:          final.Coeffs,
		Molefrac:        final.Molefrac,
		RSS:             final.RSS,
		Iterations:      res.MajorIterations,
		FuncEvaluations: res.FuncEvaluations,
		Status:          res.Status.String(),
		Duration:        time.Since(start),
	}, nil
}

func fromLog(x []float64) []float64 {
	k := make([]float64, len(x))
	for i, v := range x {
		k[i] = math.Pow(10, v)
	}
	return k
}

// contextConverger stops the search once ctx is done.
type contextConverger struct {
	ctx   context.Context
	inner optimize.Converger
}

func (c *contextConverger) Init(dim int) {
	c.inner.Init(dim)
}

func (c *contextConverger) Converged(loc *optimize.Location) optimize.Status {
	if c.ctx.Err() != nil {
		return optimize.RuntimeLimit
	}
	return c.inner.Converged(loc)
}
