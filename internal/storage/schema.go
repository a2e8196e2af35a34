// Package storage exports knowledge-base snapshots to SQLite for offline
// querying. The export is one-shot: a database holds exactly one snapshot,
// and re-exporting replaces it.
package storage

import (
	"database/sql"
	"fmt"
)

const createObjectsTable = `
CREATE TABLE IF NOT EXISTS objects (
    id INTEGER PRIMARY KEY,
    path TEXT NOT NULL UNIQUE
)`

const createFunctionsTable = `
CREATE TABLE IF NOT EXISTS functions (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    local INTEGER NOT NULL DEFAULT 0,
    object_id INTEGER REFERENCES objects(id),
    instructions INTEGER NOT NULL DEFAULT 0
)`

const createFunctionObjectsTable = `
CREATE TABLE IF NOT EXISTS function_objects (
    function_id INTEGER NOT NULL REFERENCES functions(id),
    object_id INTEGER NOT NULL REFERENCES objects(id),
    PRIMARY KEY (function_id, object_id)
)`

const createCallsTable = `
CREATE TABLE IF NOT EXISTS calls (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    caller_id INTEGER NOT NULL REFERENCES functions(id),
    callee_id INTEGER NOT NULL REFERENCES functions(id)
)`

const createMetadataTable = `
CREATE TABLE IF NOT EXISTS snapshot_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// CreateSchema creates all tables and indexes. All schema creation succeeds
// or fails together.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"objects", createObjectsTable},
		{"functions", createFunctionsTable},
		{"function_objects", createFunctionObjectsTable},
		{"calls", createCallsTable},
		{"snapshot_metadata", createMetadataTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_functions_name ON functions(name)",
		"CREATE INDEX IF NOT EXISTS idx_calls_caller ON calls(caller_id)",
		"CREATE INDEX IF NOT EXISTS idx_calls_callee ON calls(callee_id)",
	}
	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
