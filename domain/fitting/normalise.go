package fitting

// Normalise subtracts the first point of each response column so every
// column starts at zero, matching a design matrix with no free-host term.
func Normalise(y [][]float64) [][]float64 {
	out := make([][]float64, len(y))
	for c, col := range y {
		out[c] = make([]float64, len(col))
		if len(col) == 0 {
			continue
		}
		initial := col[0]
		for i, v := range col {
			out[c][i] = v - initial
		}
	}
	return out
}

// Denormalise adds the initial value of each column of y back onto the
// matching column of fitNorm.
func Denormalise(y, fitNorm [][]float64) [][]float64 {
	out := make([][]float64, len(fitNorm))
	for c, col := range fitNorm {
		out[c] = make([]float64, len(col))
		var initial float64
		if c < len(y) && len(y[c]) > 0 {
			initial = y[c][0]
		}
		for i, v := range col {
			out[c][i] = v + initial
		}
	}
	return out
}
