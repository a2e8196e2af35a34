package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// commonCmd represents the common command
var commonCmd = &cobra.Command{
	Use:   "common",
	Short: "List functions defined in every analyzed object",
	RunE:  runCommon,
}

func init() {
	rootCmd.AddCommand(commonCmd)
}

func runCommon(cmd *cobra.Command, args []string) error {
	kb, err := loadKnowledgeBase()
	if err != nil {
		return err
	}

	ids := kb.DefinedInAllObjects()
	if len(ids) == 0 {
		fmt.Printf("No function is defined in all %d analyzed objects.\n", kb.ObjectCount())
		return nil
	}

	fmt.Printf("Functions defined in all %d analyzed objects:\n", kb.ObjectCount())
	for _, id := range ids {
		fmt.Printf("  %s\n", describeFunction(kb, id))
	}
	return nil
}
