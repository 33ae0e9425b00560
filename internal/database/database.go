// Package database provides the SQLite system of record for classification
// results produced by the triage pipeline.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS classifications (
	id         TEXT PRIMARY KEY,
	input      TEXT NOT NULL,
	symptom    TEXT NOT NULL,
	cause      TEXT NOT NULL,
	action     TEXT NOT NULL,
	metadata   TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_classifications_created_at
	ON classifications(created_at DESC);
`

// Database wraps the SQLite handle used by the classification store.
type Database struct {
	db   *sql.DB
	path string
}

// Open creates or opens the SQLite database at path, applying the schema.
// WAL mode keeps concurrent readers from blocking the writer.
func Open(path string) (*Database, error) {
	if path == "" {
		return nil, types.NewError(types.DB_OPEN_FAILED, "database path cannot be empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, types.WrapError(types.DB_OPEN_FAILED,
				fmt.Sprintf("failed to create database directory %s", dir), err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.DB_OPEN_FAILED,
			fmt.Sprintf("failed to open database at %s", path), err)
	}
	db.SetMaxOpenConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, types.WrapError(types.DB_OPEN_FAILED,
			fmt.Sprintf("failed to connect to database at %s", path), err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, types.WrapError(types.DB_MIGRATION_FAILED,
			"failed to apply classification schema", err)
	}

	return &Database{db: db, path: path}, nil
}

// Close releases the database handle.
func (d *Database) Close() error {
	return d.db.Close()
}

// Health pings the database.
func (d *Database) Health(ctx context.Context) types.HealthStatus {
	if err := d.db.PingContext(ctx); err != nil {
		return types.Unhealthy(fmt.Sprintf("database ping failed: %v", err))
	}
	return types.Healthy(fmt.Sprintf("classification store at %s", d.path))
}
