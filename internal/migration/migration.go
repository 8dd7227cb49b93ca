package migration

import (
	"context"

	"tribodash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner creates the load ledger schema. Statements are plain
// SQL understood by both Postgres and SQLite.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. It is safe to run repeatedly.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDatasetLoadsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create dataset_loads table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

func (r *MigrationRunner) createDatasetLoadsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dataset_loads (
			id VARCHAR(36) PRIMARY KEY,
			source TEXT NOT NULL,
			dataset_hash VARCHAR(64) NOT NULL,
			rows_read INTEGER NOT NULL,
			rows_kept INTEGER NOT NULL,
			rows_dropped INTEGER NOT NULL,
			shape_count INTEGER NOT NULL,
			loaded_at BIGINT NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_dataset_loads_loaded_at ON dataset_loads(loaded_at)",
		"CREATE INDEX IF NOT EXISTS idx_dataset_loads_hash ON dataset_loads(dataset_hash)",
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}

	return nil
}
