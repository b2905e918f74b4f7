package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migration upgrades a database created by an older build. schema.sql
// always describes the newest layout, so every statement here must be a
// no-op on a fresh database.
type migration struct {
	version int
	stmt    string
}

// migrations are applied in order to databases whose user_version is below
// each entry's version.
//
//	0 - runs and run_counts tables only
//	1 - index on runs.circuit_name, used by `qx history --circuit`
var migrations = []migration{
	{
		version: 1,
		stmt:    `CREATE INDEX IF NOT EXISTS idx_runs_circuit_name ON runs(circuit_name)`,
	},
}

// currentSchemaVersion is the user_version of a fully migrated database.
var currentSchemaVersion = migrations[len(migrations)-1].version

// Store is the run history: one row per recorded simulation in runs, plus
// its observed bitstrings in run_counts. Runs are immutable once written.
// Uses SQLite with WAL mode so `qx history` can read while `qx run` writes.
type Store struct {
	db *sql.DB
}

// Open creates or opens a run history database at the given path.
//
// The connection is configured with:
//   - WAL journal, so readers never block the single writer
//   - NORMAL synchronous mode; a lost run on power failure is acceptable
//   - 5-second busy timeout for concurrent `qx run --db` processes
//   - foreign keys, so run_counts rows cannot outlive their run
//
// Schema creation and migrations are idempotent; opening the same file
// repeatedly is safe.
func Open(path string) (*Store, error) {
	// sqlite3 creates the file on first use
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Pragmas are per connection; a single pooled connection keeps them
	// applied and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database. It is safe on a zero Store.
// Callers should defer it right after a successful Open.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Query runs a read against the history tables.
// The caller owns the returned rows and must close them.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates missing tables, then brings older databases up to
// currentSchemaVersion.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies every migration newer than the stored user_version
// and records the new version only after all of them succeed.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		if _, err := db.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
	}

	if version == currentSchemaVersion {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// verifyPragma reports an error unless the pragma reads back as expected.
// Tests use it to check Open's configuration.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
