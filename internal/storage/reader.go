package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/asmscope/asmscope/internal/graph"
)

// ExportReader reads an exported snapshot back from SQLite.
type ExportReader struct {
	db     *sql.DB
	ownsDB bool
}

// NewExportReader opens the database at dbPath for reading.
func NewExportReader(dbPath string) (*ExportReader, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &ExportReader{db: db, ownsDB: true}, nil
}

// Close closes the database connection if owned by this reader.
func (r *ExportReader) Close() error {
	if !r.ownsDB || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// ReadSnapshot reconstructs the snapshot rows. Records come back in id order,
// matching what graph.FromSnapshot expects.
func (r *ExportReader) ReadSnapshot() (*graph.SnapshotData, error) {
	data := &graph.SnapshotData{}

	rows, err := sq.Select("id", "path").From("objects").OrderBy("id").RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	for rows.Next() {
		var rec graph.ObjectRecord
		if err := rows.Scan(&rec.ID, &rec.Path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan object row: %w", err)
		}
		data.Objects = append(data.Objects, rec)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	rows, err = sq.Select("id", "name", "local", "object_id", "instructions").
		From("functions").OrderBy("id").RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query functions: %w", err)
	}
	for rows.Next() {
		var rec graph.FunctionRecord
		var objectID sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Local, &objectID, &rec.Instructions); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan function row: %w", err)
		}
		if objectID.Valid {
			rec.Object = int(objectID.Int64)
		}
		data.Functions = append(data.Functions, rec)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	memberships, err := sq.Select("function_id", "object_id").
		From("function_objects").OrderBy("function_id", "object_id").RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	byFunction := make(map[int][]int)
	for memberships.Next() {
		var fn, obj int
		if err := memberships.Scan(&fn, &obj); err != nil {
			memberships.Close()
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		byFunction[fn] = append(byFunction[fn], obj)
	}
	if err := memberships.Close(); err != nil {
		return nil, err
	}
	for i := range data.Functions {
		data.Functions[i].DefinedIn = byFunction[data.Functions[i].ID]
	}

	rows, err = sq.Select("caller_id", "callee_id").From("calls").OrderBy("id").RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	for rows.Next() {
		var rec graph.EdgeRecord
		if err := rows.Scan(&rec.Caller, &rec.Callee); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan call row: %w", err)
		}
		data.Edges = append(data.Edges, rec)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	return data, nil
}
