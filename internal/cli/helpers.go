package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/asmscope/asmscope/internal/config"
	"github.com/asmscope/asmscope/internal/graph"
)

// loadKnowledgeBase reconstructs the knowledge base from the saved snapshot.
func loadKnowledgeBase() (*graph.KnowledgeBase, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := graph.NewStorage(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot storage: %w", err)
	}
	data, err := store.Load()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("no snapshot found in %s; run 'asmscope analyze' first", cfg.DataDir)
	}

	kb, err := graph.FromSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct knowledge base: %w", err)
	}
	return kb, nil
}

// describeFunction renders one identity the way the CLI prints it.
func describeFunction(kb *graph.KnowledgeBase, id graph.FunctionID) string {
	key := kb.FunctionKeyOf(id)
	if key.Local {
		return fmt.Sprintf("%s (local to %s)", key.Name, kb.ObjectPath(key.Object))
	}
	return key.Name
}
