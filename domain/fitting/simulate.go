package fitting

import (
	"errors"
	"fmt"
)

// Simulation is the speciation predicted for fixed binding constants.
type Simulation struct {
	H0  []float64
	G0  []float64
	Geq []float64
	// Molefrac[s][i] is species s at point i.
	Molefrac [][]float64
}

// Simulate evaluates the isotherm for k without fitting, as used by Bindsim.
func (f *Function) Simulate(k, h0, g0 []float64) (*Simulation, error) {
	if len(k) != f.ParamCount() {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrParamCount, f.Name, f.ParamCount(), len(k))
	}
	for i, v := range h0 {
		if !(v > 0) {
			return nil, fmt.Errorf("h0[%d] must be positive, got %g", i, v)
		}
	}
	for i, v := range g0 {
		if !(v >= 0) {
			return nil, fmt.Errorf("g0[%d] must not be negative, got %g", i, v)
		}
	}

	molefrac, err := f.Molefrac(k, h0, g0)
	if err != nil {
		return nil, err
	}

	n, m := molefrac.Dims()
	species := make([][]float64, m)
	for s := 0; s < m; s++ {
		species[s] = make([]float64, n)
		for i := 0; i < n; i++ {
			species[s][i] = molefrac.At(i, s)
		}
	}

	geq := make([]float64, len(h0))
	for i := range h0 {
		geq[i] = g0[i] / h0[i]
	}

	return &Simulation{
		H0:       append([]float64(nil), h0...),
		G0:       append([]float64(nil), g0...),
		Geq:      geq,
		Molefrac: species,
	}, nil
}

// TitrationSeries builds a constant-host titration with guest running from
// zero to g0Max over points evenly spaced additions.
func TitrationSeries(h0, g0Max float64, points int) ([]float64, []float64, error) {
	if points < 2 {
		return nil, nil, errors.New("a titration series needs at least two points")
	}
	if !(h0 > 0) || !(g0Max >= 0) {
		return nil, nil, errors.New("h0 must be positive and g0 max must not be negative")
	}
	hs := make([]float64, points)
	gs := make([]float64, points)
	step := g0Max / float64(points-1)
	for i := 0; i < points; i++ {
		hs[i] = h0
		gs[i] = step * float64(i)
	}
	return hs, gs, nil
}
