package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is a single schema step.
type migration struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, tx *sql.Tx) error
}

// MigrationRunner applies pending migrations to Postgres or SQLite.
type MigrationRunner struct {
	db         *sql.DB
	driver     string
	migrations []migration
}

func NewMigrationRunner(db *sql.DB, driver string) *MigrationRunner {
	return &MigrationRunner{
		db:     db,
		driver: driver,
		migrations: []migration{
			{Version: 1, Name: "records", Apply: migrateV001},
			{Version: 2, Name: "records_period_ts_index", Apply: migrateV002},
		},
	}
}

// Run creates the schema_migrations table and applies every migration that
// has not been recorded yet, each in its own transaction. It returns the
// versions applied by this call.
func (r *MigrationRunner) Run(ctx context.Context) ([]int, error) {
	if r.driver == DriverSQLite {
		if _, err := r.db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	var applied []int
	for _, m := range r.migrations {
		done, err := r.isApplied(ctx, m.Version)
		if err != nil {
			return applied, fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if done {
			continue
		}

		if err := r.apply(ctx, m); err != nil {
			return applied, fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		applied = append(applied, m.Version)
	}

	return applied, nil
}

func (r *MigrationRunner) isApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = $1", version,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MigrationRunner) apply(ctx context.Context, m migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}

// migrateV001 creates the records table. Timestamps are stored as UTC
// RFC 3339 text so both drivers compare them the same way.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			dedupe_key TEXT PRIMARY KEY,
			period     TEXT NOT NULL,
			ts         TEXT NOT NULL,
			count      DOUBLE PRECISION,
			attributes TEXT NOT NULL DEFAULT '{}',
			vals       TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_period ON records(period)`,
	}
	return execAll(ctx, tx, stmts)
}

func migrateV002(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_records_ts ON records(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_records_period_ts ON records(period, ts)`,
	}
	return execAll(ctx, tx, stmts)
}

func execAll(ctx context.Context, tx *sql.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
