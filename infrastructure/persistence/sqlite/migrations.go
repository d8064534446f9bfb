package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration moves the schema from FromVersion to ToVersion
type Migration struct {
	FromVersion int
	ToVersion   int
	Description string
	Up          func(ctx context.Context, tx *sql.Tx) error
}

// migrations are applied in order; the schema version lives in
// PRAGMA user_version.
var migrations = []Migration{
	{
		FromVersion: 0,
		ToVersion:   1,
		Description: "create datasets and fits",
		Up: execAll(
			`CREATE TABLE IF NOT EXISTS datasets (
				id TEXT PRIMARY KEY,
				h0 TEXT NOT NULL,
				g0 TEXT NOT NULL,
				y TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS fits (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				data_id TEXT NOT NULL REFERENCES datasets(id),
				fitter TEXT NOT NULL,
				params_guess TEXT NOT NULL,
				params TEXT NOT NULL,
				y TEXT NOT NULL,
				coeffs TEXT NOT NULL,
				rss REAL NOT NULL,
				created_at TEXT NOT NULL
			)`,
		),
	},
	{
		FromVersion: 1,
		ToVersion:   2,
		Description: "index fits by dataset and creation time",
		Up: execAll(
			`CREATE INDEX IF NOT EXISTS idx_fits_data_created ON fits(data_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_fits_created ON fits(created_at)`,
		),
	},
}

func execAll(statements ...string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}

// latestVersion is the version the migrations end at
func latestVersion() int {
	return migrations[len(migrations)-1].ToVersion
}

// SchemaVersion returns the applied schema version
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// migrate applies every migration past the current version, each in its own
// transaction.
func (s *Store) migrate(ctx context.Context) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > latestVersion() {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, latestVersion())
	}

	for _, m := range migrations {
		if m.FromVersion < current {
			continue
		}
		if m.FromVersion != current {
			return fmt.Errorf("no migration found from version %d", current)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d->%d: %w", m.FromVersion, m.ToVersion, err)
		}
		if err := m.Up(ctx, tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d->%d (%s) failed: %w", m.FromVersion, m.ToVersion, m.Description, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.ToVersion)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record schema version %d: %w", m.ToVersion, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d->%d: %w", m.FromVersion, m.ToVersion, err)
		}
		current = m.ToVersion
	}
	return nil
}
