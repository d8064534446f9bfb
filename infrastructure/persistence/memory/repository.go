// Package memory holds map-backed repositories for tests and throwaway runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"supramolecular/application/ports"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"
)

// DataRepository keeps datasets in memory
type DataRepository struct {
	mu    sync.RWMutex
	items map[string]*entities.Dataset
}

// NewDataRepository creates an empty repository
func NewDataRepository() *DataRepository {
	return &DataRepository{items: make(map[string]*entities.Dataset)}
}

// Save stores a dataset unless one with the same ID exists
func (r *DataRepository) Save(ctx context.Context, data *entities.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[data.ID().String()]; !exists {
		r.items[data.ID().String()] = data
	}
	return nil
}

// GetByID retrieves a dataset
func (r *DataRepository) GetByID(ctx context.Context, id valueobjects.DataID) (*entities.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.items[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("dataset")
	}
	return data, nil
}

// Exists reports whether a dataset is stored
func (r *DataRepository) Exists(ctx context.Context, id valueobjects.DataID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[id.String()]
	return ok, nil
}

// Ping always succeeds
func (r *DataRepository) Ping(ctx context.Context) error {
	return nil
}

// FitRepository keeps fits in memory
type FitRepository struct {
	mu    sync.RWMutex
	items map[string]*entities.Fit
}

// NewFitRepository creates an empty repository
func NewFitRepository() *FitRepository {
	return &FitRepository{items: make(map[string]*entities.Fit)}
}

// Save stores a new fit
func (r *FitRepository) Save(ctx context.Context, fit *entities.Fit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[fit.ID().String()]; exists {
		return pkgerrors.NewConflictError("fit already exists")
	}
	r.items[fit.ID().String()] = fit
	return nil
}

// GetByID retrieves a fit
func (r *FitRepository) GetByID(ctx context.Context, id valueobjects.FitID) (*entities.Fit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fit, ok := r.items[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("fit")
	}
	return fit, nil
}

// List returns fits newest first
func (r *FitRepository) List(ctx context.Context, filter ports.FitFilter) ([]*entities.Fit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Fit, 0, len(r.items))
	for _, fit := range r.items {
		if !filter.DataID.IsZero() && !fit.DataID().Equals(filter.DataID) {
			continue
		}
		out = append(out, fit)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID().String() < out[j].ID().String()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Delete removes a fit
func (r *FitRepository) Delete(ctx context.Context, id valueobjects.FitID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id.String()]; !ok {
		return pkgerrors.NewNotFoundError("fit")
	}
	delete(r.items, id.String())
	return nil
}
