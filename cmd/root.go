package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "searchengine",
	Short: "AI meta-search orchestration engine",
	Long: `searchengine answers natural-language queries by fanning them out to
multiple search providers, deduplicating and ranking the merged results,
optionally deepening the search through an agentic refinement loop, and
persisting a vector memory of past findings for reuse.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
