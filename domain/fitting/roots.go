package fitting

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// realTolerance is the relative imaginary magnitude below which an
// eigenvalue of the companion matrix is treated as a real root.
const realTolerance = 1e-8

// PolyRoots returns the roots of the polynomial whose coefficients are given
// from the highest power down. Leading zero coefficients are ignored. Roots
// are the eigenvalues of the companion matrix.
func PolyRoots(coeffs []float64) ([]complex128, error) {
	for _, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, errors.New("polynomial coefficients must be finite")
		}
	}

	start := 0
	for start < len(coeffs) && coeffs[start] == 0 {
		start++
	}
	p := coeffs[start:]
	degree := len(p) - 1
	if degree < 1 {
		return nil, nil
	}
	if degree == 1 {
		return []complex128{complex(-p[1]/p[0], 0)}, nil
	}

	companion := mat.NewDense(degree, degree, nil)
	for j := 0; j < degree; j++ {
		companion.Set(0, j, -p[j+1]/p[0])
	}
	for i := 1; i < degree; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, errors.New("eigen decomposition of companion matrix failed")
	}
	return eig.Values(nil), nil
}

// smallestNonNegativeRealRoot picks the physically meaningful root of a
// speciation polynomial. It returns 0 when no real non-negative root exists.
func smallestNonNegativeRealRoot(roots []complex128) float64 {
	best := math.Inf(1)
	for _, r := range roots {
		re, im := real(r), imag(r)
		if math.Abs(im) > realTolerance*cmplx.Abs(r) {
			continue
		}
		if re < 0 {
			continue
		}
		if re < best {
			best = re
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}
