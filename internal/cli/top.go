package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topLimitFlag int

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the hottest functions by instruction count",
	RunE:  runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().IntVarP(&topLimitFlag, "limit", "n", 20, "maximum number of functions to list")
}

func runTop(cmd *cobra.Command, args []string) error {
	kb, err := loadKnowledgeBase()
	if err != nil {
		return err
	}

	ranked := kb.TopByInstructions(topLimitFlag)
	if len(ranked) == 0 {
		fmt.Println("No functions with a counted body in the snapshot.")
		return nil
	}

	for i, entry := range ranked {
		fmt.Printf("%4d  %8d  %s\n", i+1, entry.Instructions, describeFunction(kb, entry.ID))
	}
	return nil
}
