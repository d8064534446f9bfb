package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"
)

// DataRepository implements ports.DataRepository on SQLite
type DataRepository struct {
	store *Store
}

// NewDataRepository creates a new repository
func NewDataRepository(store *Store) *DataRepository {
	return &DataRepository{store: store}
}

// Save stores a dataset. An existing row with the same ID is left untouched.
func (r *DataRepository) Save(ctx context.Context, data *entities.Dataset) error {
	h0, err := encode(data.H0())
	if err != nil {
		return fmt.Errorf("failed to encode h0: %w", err)
	}
	g0, err := encode(data.G0())
	if err != nil {
		return fmt.Errorf("failed to encode g0: %w", err)
	}
	y, err := encode(data.Y())
	if err != nil {
		return fmt.Errorf("failed to encode y: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO datasets (id, h0, g0, y, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		data.ID().String(), h0, g0, y, timestamp(data.CreatedAt()),
	)
	if err != nil {
		return pkgerrors.NewDatabaseError("save dataset", err)
	}
	return nil
}

// GetByID retrieves a dataset
func (r *DataRepository) GetByID(ctx context.Context, id valueobjects.DataID) (*entities.Dataset, error) {
	var rawH0, rawG0, rawY, created string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT h0, g0, y, created_at FROM datasets WHERE id = ?`, id.String(),
	).Scan(&rawH0, &rawG0, &rawY, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("dataset")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get dataset", err)
	}

	var h0, g0 []float64
	var y [][]float64
	if err := decode(rawH0, &h0); err != nil {
		return nil, fmt.Errorf("failed to decode h0: %w", err)
	}
	if err := decode(rawG0, &g0); err != nil {
		return nil, fmt.Errorf("failed to decode g0: %w", err)
	}
	if err := decode(rawY, &y); err != nil {
		return nil, fmt.Errorf("failed to decode y: %w", err)
	}
	createdAt, err := parseTimestamp(created)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return entities.ReconstructDataset(id, h0, g0, y, createdAt)
}

// Exists reports whether a dataset is stored
func (r *DataRepository) Exists(ctx context.Context, id valueobjects.DataID) (bool, error) {
	var one int
	err := r.store.db.QueryRowContext(ctx, `SELECT 1 FROM datasets WHERE id = ?`, id.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.NewDatabaseError("check dataset", err)
	}
	return true, nil
}

// Ping checks the database is reachable
func (r *DataRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
