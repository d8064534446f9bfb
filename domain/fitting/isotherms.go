package fitting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Isotherm predicts the n×m design matrix for binding constants k at the
// given total host and guest concentrations.
type Isotherm func(k, h0, g0 []float64) (*mat.Dense, error)

// NMR1to1 returns the HG mole fraction (relative to total host) for a 1:1
// host-guest equilibrium.
func NMR1to1(k, h0, g0 []float64) (*mat.Dense, error) {
	return oneToOne(k, h0, g0, true)
}

// UV1to1 returns the HG concentration for a 1:1 host-guest equilibrium.
func UV1to1(k, h0, g0 []float64) (*mat.Dense, error) {
	return oneToOne(k, h0, g0, false)
}

// NMR1to2 returns the HG and HG2 mole fractions for a 1:2 host-guest
// equilibrium.
func NMR1to2(k, h0, g0 []float64) (*mat.Dense, error) {
	return oneToTwo(k, h0, g0, false)
}

// UV1to2 returns the HG and HG2 concentrations for a 1:2 host-guest
// equilibrium.
func UV1to2(k, h0, g0 []float64) (*mat.Dense, error) {
	return oneToTwo(k, h0, g0, true)
}

// complexRoot solves hg² - s·hg + h0·g0 = 0 for the smaller root. For K > 0 the
// discriminant is never negative except through rounding, in which case the
// geometric mean of h0 and g0 is returned.
func complexRoot(s, h0, g0 float64) float64 {
	disc := s*s - 4*g0*h0
	if disc < 0 {
		return math.Sqrt(h0 * g0)
	}
	return 0.5 * (s - math.Sqrt(disc))
}

func oneToOne(k, h0, g0 []float64, molefraction bool) (*mat.Dense, error) {
	if err := checkIsothermArgs(k, 1, h0, g0); err != nil {
		return nil, err
	}

	ka := k[0]
	out := mat.NewDense(len(h0), 1, nil)
	for i := range h0 {
		hg := complexRoot(g0[i]+h0[i]+1/ka, h0[i], g0[i])

		if molefraction {
			hg /= h0[i]
		}
		out.Set(i, 0, hg)
	}
	return out, nil
}

func oneToTwo(k, h0, g0 []float64, concentration bool) (*mat.Dense, error) {
	if err := checkIsothermArgs(k, 2, h0, g0); err != nil {
		return nil, err
	}

	k11, k12 := k[0], k[1]
	out := mat.NewDense(len(h0), 2, nil)
	for i := range h0 {
		g, err := freeGuest1to2(k11, k12, h0[i], g0[i])
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}

		denom := 1 + g*k11 + g*g*k11*k12
		hg := g * k11 / denom
		hg2 := g * g * k11 * k12 / denom
		if concentration {
			hg *= h0[i]
			hg2 *= h0[i]
		}
		out.Set(i, 0, hg)
		out.Set(i, 1, hg2)
	}
	return out, nil
}

// freeGuest1to2 solves the 1:2 mass balance cubic for free guest [G].
func freeGuest1to2(k11, k12, h0, g0 float64) (float64, error) {
	a := k11 * k12
	b := 2*k11*k12*h0 + k11 - g0*k11*k12
	c := 1 + k11*h0 - k11*g0
	d := -g0

	roots, err := PolyRoots([]float64{a, b, c, d})
	if err != nil {
		return 0, err
	}
	return smallestNonNegativeRealRoot(roots), nil
}

func checkIsothermArgs(k []float64, nparams int, h0, g0 []float64) error {
	if len(k) != nparams {
		return fmt.Errorf("expected %d binding constants, got %d", nparams, len(k))
	}
	for i, v := range k {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("binding constant %d must be positive and finite, got %g", i, v)
		}
	}
	if len(h0) != len(g0) {
		return fmt.Errorf("h0 and g0 lengths differ: %d != %d", len(h0), len(g0))
	}
	if len(h0) == 0 {
		return fmt.Errorf("no titration points")
	}
	return nil
}
