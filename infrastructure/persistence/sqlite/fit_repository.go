package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"supramolecular/application/ports"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"
)

// FitRepository implements ports.FitRepository on SQLite
type FitRepository struct {
	store *Store
}

// NewFitRepository creates a new repository
func NewFitRepository(store *Store) *FitRepository {
	return &FitRepository{store: store}
}

const fitColumns = `id, name, notes, data_id, fitter, params_guess, params, y, coeffs, rss, created_at`

// Save inserts a fit
func (r *FitRepository) Save(ctx context.Context, fit *entities.Fit) error {
	encoded := make([]string, 0, 4)
	for _, v := range []interface{}{fit.ParamsGuess(), fit.Params(), fit.Y(), fit.Coeffs()} {
		s, err := encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode fit: %w", err)
		}
		encoded = append(encoded, s)
	}

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO fits (`+fitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fit.ID().String(),
		fit.Name(),
		fit.Notes(),
		fit.DataID().String(),
		fit.Fitter().String(),
		encoded[0], encoded[1], encoded[2], encoded[3],
		fit.RSS(),
		timestamp(fit.CreatedAt()),
	)
	if err != nil {
		if isConstraintError(err) {
			return pkgerrors.NewConflictError("fit already exists or its dataset is missing").WithCause(err)
		}
		return pkgerrors.NewDatabaseError("save fit", err)
	}
	return nil
}

// GetByID retrieves a fit
func (r *FitRepository) GetByID(ctx context.Context, id valueobjects.FitID) (*entities.Fit, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+fitColumns+` FROM fits WHERE id = ?`, id.String())
	fit, err := scanFit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("fit")
	}
	if err != nil {
		return nil, err
	}
	return fit, nil
}

// List returns fits newest first
func (r *FitRepository) List(ctx context.Context, filter ports.FitFilter) ([]*entities.Fit, error) {
	query := `SELECT ` + fitColumns + ` FROM fits`
	var args []interface{}
	if !filter.DataID.IsZero() {
		query += ` WHERE data_id = ?`
		args = append(args, filter.DataID.String())
	}
	query += ` ORDER BY created_at DESC, id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list fits", err)
	}
	defer rows.Close()

	var fits []*entities.Fit
	for rows.Next() {
		fit, err := scanFit(rows)
		if err != nil {
			return nil, err
		}
		fits = append(fits, fit)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list fits", err)
	}
	return fits, nil
}

// Delete removes a fit
func (r *FitRepository) Delete(ctx context.Context, id valueobjects.FitID) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM fits WHERE id = ?`, id.String())
	if err != nil {
		return pkgerrors.NewDatabaseError("delete fit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pkgerrors.NewDatabaseError("delete fit", err)
	}
	if n == 0 {
		return pkgerrors.NewNotFoundError("fit")
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFit(row scanner) (*entities.Fit, error) {
	var (
		rawID, name, notes, rawDataID, rawFitter string
		rawGuess, rawParams, rawY, rawCoeffs     string
		rss                                      float64
		created                                  string
	)
	if err := row.Scan(&rawID, &name, &notes, &rawDataID, &rawFitter,
		&rawGuess, &rawParams, &rawY, &rawCoeffs, &rss, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, pkgerrors.NewDatabaseError("scan fit", err)
	}

	id, err := valueobjects.NewFitIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored fit ID: %w", err)
	}
	dataID, err := valueobjects.NewDataIDFromString(rawDataID)
	if err != nil {
		return nil, fmt.Errorf("stored data ID: %w", err)
	}

	var guess, params []float64
	var y, coeffs [][]float64
	for _, pair := range []struct {
		raw string
		dst interface{}
	}{{rawGuess, &guess}, {rawParams, &params}, {rawY, &y}, {rawCoeffs, &coeffs}} {
		if err := decode(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("failed to decode fit %s: %w", rawID, err)
		}
	}

	createdAt, err := parseTimestamp(created)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return entities.ReconstructFit(
		id,
		entities.FitMetadata{Name: name, Notes: notes},
		dataID,
		valueobjects.FitterName(rawFitter),
		guess,
		entities.FitOutcome{Params: params, Y: y, Coeffs: coeffs, RSS: rss},
		createdAt,
	)
}

func isConstraintError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "constraint")
}
