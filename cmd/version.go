package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the version of the cachesim tool. Release builds override it
// with -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of cachesim.",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cachesim %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
