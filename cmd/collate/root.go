package main

import (
	"github.com/spf13/cobra"

	"github.com/collate-dev/collate/internal/api"
	"github.com/collate-dev/collate/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "collate",
	Short: "Deterministic grouping of scanned document pages into letters",
	Long: `Collate groups individually-scanned document pages (images plus their
transcribed text) into coherent letters without any AI judgment.

Pages are ordered by capture time; group boundaries are proposed from
capture-time gaps and lexical-similarity drops, can be corrected with an
auditable override file, and each group is written out as metadata plus
concatenated text. Re-running on unchanged inputs and thresholds produces
byte-identical outputs.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.collate/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "collate home directory (default: ~/.collate)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
