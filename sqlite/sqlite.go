// Package sqlite provides SQLite-based storage for usage quotas,
// optimization records and cached analyses.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// SchemaVersion is stored in PRAGMA user_version after the schema is created.
const SchemaVersion = 1

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers inside this process; busy_timeout
	// covers other CLI processes reserving quota against the same file.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"}
	if db.path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	db.db = conn
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS usage_limits (
			user_id TEXT PRIMARY KEY,
			analyses_limit INTEGER NOT NULL,
			cost_limit REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS usage (
			user_id TEXT NOT NULL,
			period_month TEXT NOT NULL,
			analyses_used INTEGER NOT NULL DEFAULT 0,
			cost_used REAL NOT NULL DEFAULT 0,
			analyses_limit INTEGER NOT NULL,
			cost_limit REAL NOT NULL,
			PRIMARY KEY (user_id, period_month)
		);

		CREATE TABLE IF NOT EXISTS reservations (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			period_month TEXT NOT NULL,
			estimated_cost REAL NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (user_id, period_month) REFERENCES usage(user_id, period_month) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_reservations_created_at ON reservations(created_at);

		CREATE TABLE IF NOT EXISTS optimizations (
			content_id TEXT PRIMARY KEY,
			seo_keywords TEXT NOT NULL DEFAULT '[]',
			enhanced_tags TEXT NOT NULL DEFAULT '[]',
			method TEXT NOT NULL,
			last_optimized_at TEXT NOT NULL,
			model_used TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS analysis_cache (
			key TEXT PRIMARY KEY,
			result TEXT NOT NULL,
			expires_at TEXT NOT NULL
		);
	`

	if _, err := db.db.Exec(schema); err != nil {
		return err
	}
	_, err := db.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion))
	return err
}
