package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	// SnapshotFileName is the name of the snapshot file inside the data dir.
	SnapshotFileName = "callgraph.json"
	// SnapshotVersion is the current version of the snapshot format.
	SnapshotVersion = "1.0"
)

// Storage handles reading and writing snapshots to disk.
type Storage interface {
	// Load loads the snapshot from disk. Returns nil if the file doesn't exist.
	Load() (*SnapshotData, error)

	// Save saves the snapshot to disk using atomic write pattern.
	Save(data *SnapshotData) error

	// Exists checks if the snapshot file exists.
	Exists() bool
}

// storage implements Storage with atomic write support.
type storage struct {
	dataDir string
}

// NewStorage creates snapshot storage rooted at dataDir.
func NewStorage(dataDir string) (Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	tempDir := filepath.Join(dataDir, ".tmp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &storage{dataDir: dataDir}, nil
}

// Load loads the snapshot from disk.
func (s *storage) Load() (*SnapshotData, error) {
	filePath := s.snapshotFilePath()

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil // Not an error, just no snapshot yet
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var data SnapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	return &data, nil
}

// Save saves the snapshot to disk using atomic write pattern.
func (s *storage) Save(data *SnapshotData) error {
	data.Metadata.Version = SnapshotVersion
	if data.Metadata.AnalysisID == "" {
		data.Metadata.AnalysisID = uuid.NewString()
	}
	data.Metadata.GeneratedAt = time.Now()
	data.Metadata.ObjectCount = len(data.Objects)
	data.Metadata.FunctionCount = len(data.Functions)
	data.Metadata.EdgeCount = len(data.Edges)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tempPath := filepath.Join(s.dataDir, ".tmp", SnapshotFileName)
	if err := os.WriteFile(tempPath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot file: %w", err)
	}

	// Atomic rename (POSIX guarantees atomicity)
	if err := os.Rename(tempPath, s.snapshotFilePath()); err != nil {
		return fmt.Errorf("failed to rename temp snapshot file: %w", err)
	}
	return nil
}

// Exists checks if the snapshot file exists.
func (s *storage) Exists() bool {
	_, err := os.Stat(s.snapshotFilePath())
	return err == nil
}

func (s *storage) snapshotFilePath() string {
	return filepath.Join(s.dataDir, SnapshotFileName)
}
