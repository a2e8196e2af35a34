package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asmscope/asmscope/internal/graph"
	"github.com/asmscope/asmscope/internal/mcp"
)

var (
	reportObjectFlag string
	reportDepthFlag  int
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <function>",
	Short: "Show defining objects, callers, and callees of a function",
	Long: `Report resolves a function name against the snapshot and prints its
defining objects and direct neighbors. Local symbols sharing a name across
objects need --object to disambiguate. With --depth > 1 the caller and callee
sections become transitive, annotated with the traversal depth.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportObjectFlag, "object", "", "output path owning the function (for local symbols)")
	reportCmd.Flags().IntVarP(&reportDepthFlag, "depth", "d", 1, "neighbor traversal depth")
}

func runReport(cmd *cobra.Command, args []string) error {
	kb, err := loadKnowledgeBase()
	if err != nil {
		return err
	}

	id, err := mcp.ResolveFunction(kb, args[0], reportObjectFlag)
	if err != nil {
		return err
	}
	report, err := kb.Report(kb.FunctionKeyOf(id))
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", describeFunction(kb, report.ID))
	fmt.Printf("  instructions: %d\n", report.Instructions)

	fmt.Println("  defined in:")
	if len(report.Objects) == 0 {
		fmt.Println("    (never defined, only referenced)")
	}
	for _, path := range report.Objects {
		fmt.Printf("    %s\n", path)
	}

	if reportDepthFlag > 1 {
		searcher, err := graph.NewSearcher(kb)
		if err != nil {
			return fmt.Errorf("failed to build searcher: %w", err)
		}
		printNeighbors(kb, "callers", searcher.TransitiveCallers(id, reportDepthFlag))
		printNeighbors(kb, "callees", searcher.TransitiveCallees(id, reportDepthFlag))
		return nil
	}

	printDirect(kb, "callers", report.Callers)
	printDirect(kb, "callees", report.Callees)
	return nil
}

func printDirect(kb *graph.KnowledgeBase, label string, ids []graph.FunctionID) {
	fmt.Printf("  %s:\n", label)
	if len(ids) == 0 {
		fmt.Println("    (none)")
		return
	}
	seen := make(map[graph.FunctionID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		fmt.Printf("    %s\n", describeFunction(kb, id))
	}
}

func printNeighbors(kb *graph.KnowledgeBase, label string, neighbors []graph.Neighbor) {
	fmt.Printf("  %s (transitive):\n", label)
	if len(neighbors) == 0 {
		fmt.Println("    (none)")
		return
	}
	for _, n := range neighbors {
		fmt.Printf("    [%d] %s\n", n.Depth, describeFunction(kb, n.ID))
	}
}
