package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/asmscope/asmscope/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve call-graph queries over the Model Context Protocol",
	Long: `Mcp loads the analysis snapshot and serves the query layer on stdio as an
MCP server, exposing a single callgraph_query tool with the top, common, and
report operations.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	kb, err := loadKnowledgeBase()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(kb)
	if err != nil {
		return err
	}
	return server.Serve(context.Background())
}
