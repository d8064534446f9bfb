package fitting

import (
	"fmt"
	"sort"

	"supramolecular/domain/core/valueobjects"
)

// Registry maps fitter names to their Functions.
type Registry struct {
	functions map[valueobjects.FitterName]*Function
}

// NewRegistry creates a registry with the given functions.
func NewRegistry(functions ...*Function) *Registry {
	r := &Registry{functions: make(map[valueobjects.FitterName]*Function, len(functions))}
	for _, f := range functions {
		r.functions[f.Name] = f
	}
	return r
}

// DefaultRegistry returns every built-in binding model.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewFunction(valueobjects.FitterNMR1to1, KindNMR, "1:1", []string{"K"}, NMR1to1),
		NewFunction(valueobjects.FitterNMR1to2, KindNMR, "1:2", []string{"K11", "K12"}, NMR1to2),
		NewFunction(valueobjects.FitterUV1to1, KindUV, "1:1", []string{"K"}, UV1to1),
		NewFunction(valueobjects.FitterUV1to2, KindUV, "1:2", []string{"K11", "K12"}, UV1to2),
	)
}

// Select returns the Function registered under name.
func (r *Registry) Select(name valueobjects.FitterName) (*Function, error) {
	f, ok := r.functions[name]
	if !ok {
		return nil, fmt.Errorf("unknown fitter %q", name)
	}
	return f, nil
}

// List returns all functions sorted by name.
func (r *Registry) List() []*Function {
	out := make([]*Function, 0, len(r.functions))
	for _, f := range r.functions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
