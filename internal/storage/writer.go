package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/asmscope/asmscope/internal/graph"
)

// ExportWriter writes a snapshot (objects, functions, memberships, calls,
// metadata) to SQLite.
type ExportWriter struct {
	db     *sql.DB
	ownsDB bool
}

// NewExportWriter opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewExportWriter(dbPath string) (*ExportWriter, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &ExportWriter{db: db, ownsDB: true}, nil
}

// NewExportWriterWithDB wraps an existing connection. The caller keeps
// ownership of the connection lifecycle.
func NewExportWriterWithDB(db *sql.DB) *ExportWriter {
	return &ExportWriter{db: db, ownsDB: false}
}

// Close closes the database connection if owned by this writer.
func (w *ExportWriter) Close() error {
	if !w.ownsDB || w.db == nil {
		return nil
	}
	return w.db.Close()
}

// WriteSnapshot writes the complete snapshot in a single transaction,
// clearing any previously exported data first.
func (w *ExportWriter) WriteSnapshot(data *graph.SnapshotData) error {
	if data == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Clear in reverse dependency order.
	for _, table := range []string{"calls", "function_objects", "functions", "objects", "snapshot_metadata"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, obj := range data.Objects {
		query := sq.Insert("objects").Columns("id", "path").Values(obj.ID, obj.Path)
		if _, err := query.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert object %q: %w", obj.Path, err)
		}
	}

	for _, fn := range data.Functions {
		var objectID interface{}
		if fn.Local {
			objectID = fn.Object
		}
		query := sq.Insert("functions").
			Columns("id", "name", "local", "object_id", "instructions").
			Values(fn.ID, fn.Name, fn.Local, objectID, fn.Instructions)
		if _, err := query.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert function %q: %w", fn.Name, err)
		}
		for _, obj := range fn.DefinedIn {
			membership := sq.Insert("function_objects").
				Columns("function_id", "object_id").
				Values(fn.ID, obj)
			if _, err := membership.RunWith(tx).Exec(); err != nil {
				return fmt.Errorf("failed to insert membership for %q: %w", fn.Name, err)
			}
		}
	}

	for _, edge := range data.Edges {
		query := sq.Insert("calls").Columns("caller_id", "callee_id").Values(edge.Caller, edge.Callee)
		if _, err := query.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert call %d->%d: %w", edge.Caller, edge.Callee, err)
		}
	}

	meta := map[string]string{
		"version":      data.Metadata.Version,
		"analysis_id":  data.Metadata.AnalysisID,
		"generated_at": data.Metadata.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for key, value := range meta {
		query := sq.Insert("snapshot_metadata").Columns("key", "value").Values(key, value)
		if _, err := query.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}
