package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current asmscope version, overridable at link time.
var Version = "0.1.0"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the asmscope version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("asmscope %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
