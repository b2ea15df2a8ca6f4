// Package cmd provides the command-line interface for the cache simulator.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "cachesim",
	Short: "Cachesim replays memory-access traces against a set-associative " +
		"cache model.",
	Long: `Cachesim replays Valgrind Lackey memory traces against a ` +
		`functional set-associative cache model and reports the number of ` +
		`hits, misses, and evictions.

Examples:
  cachesim -s 4 -E 1 -b 4 -t traces/yi.trace
  cachesim -v -s 8 -E 2 -b 4 -t traces/yi.trace`,
	RunE: runSimulation,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntP("set-bits", "s", 0,
		"number of set index bits")
	rootCmd.Flags().IntP("associativity", "E", 0,
		"number of lines per set")
	rootCmd.Flags().IntP("block-bits", "b", 0,
		"number of block offset bits")
	rootCmd.Flags().StringP("trace", "t", "",
		"trace file to replay")
	rootCmd.Flags().BoolP("verbose", "v", false,
		"annotate every trace event with its outcomes")
	rootCmd.Flags().Bool("record", false,
		"record every access and the summary through the data recorder")
	rootCmd.Flags().String("db", "sqlite",
		"recording backend, sqlite or clickhouse")
	rootCmd.Flags().Bool("monitor", false,
		"serve the live monitoring dashboard while replaying")
	rootCmd.Flags().Int("monitor-port", 0,
		"port of the monitoring server, 0 picks a free port")

	mustMarkRequired("set-bits", "associativity", "block-bits", "trace")
}

func mustMarkRequired(names ...string) {
	for _, name := range names {
		err := rootCmd.MarkFlagRequired(name)
		if err != nil {
			panic(err)
		}
	}
}
