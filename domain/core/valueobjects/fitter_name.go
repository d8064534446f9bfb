package valueobjects

import (
	"fmt"
	"strings"
)

// FitterName selects the binding model used for a fit.
type FitterName string

const (
	FitterNMR1to1 FitterName = "nmr1to1"
	FitterNMR1to2 FitterName = "nmr1to2"
	FitterUV1to1  FitterName = "uv1to1"
	FitterUV1to2  FitterName = "uv1to2"
)

// AllFitters lists every supported fitter in display order.
var AllFitters = []FitterName{FitterNMR1to1, FitterNMR1to2, FitterUV1to1, FitterUV1to2}

// ParseFitterName normalises and validates a fitter name
func ParseFitterName(s string) (FitterName, error) {
	name := FitterName(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range AllFitters {
		if f == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown fitter %q", s)
}

// String returns the fitter name
func (f FitterName) String() string {
	return string(f)
}
