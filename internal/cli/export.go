package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/asmscope/asmscope/internal/config"
	"github.com/asmscope/asmscope/internal/graph"
	"github.com/asmscope/asmscope/internal/storage"
)

var exportDBFlag string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the snapshot to a SQLite database",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDBFlag, "db", "", "database path (default <data-dir>/callgraph.db)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := graph.NewStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open snapshot storage: %w", err)
	}
	data, err := store.Load()
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("no snapshot found in %s; run 'asmscope analyze' first", cfg.DataDir)
	}

	dbPath := exportDBFlag
	if dbPath == "" {
		dbPath = filepath.Join(cfg.DataDir, "callgraph.db")
	}

	writer, err := storage.NewExportWriter(dbPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := writer.WriteSnapshot(data); err != nil {
		return err
	}

	fmt.Printf("Exported %d functions, %d edges to %s\n",
		len(data.Functions), len(data.Edges), dbPath)
	return nil
}
