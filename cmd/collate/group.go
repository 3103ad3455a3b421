package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/collate-dev/collate/internal/api"
	"github.com/collate-dev/collate/internal/config"
	"github.com/collate-dev/collate/internal/home"
	"github.com/collate-dev/collate/internal/pipeline"
)

var (
	groupInputDir  string
	groupTextDir   string
	groupLetters   string
	groupTimeGap   int
	groupSim       float64
	groupSingle    bool
	groupOverrides string
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group scanned pages into letters",
	Long: `Group scanned pages into letters.

Pages are read from the input directory (.jpg/.jpeg/.png), matched to their
transcriptions by filename stem (<stem>.txt in the text directory), sorted
by capture time, and partitioned at boundaries proposed from time gaps and
lexical-similarity drops. Each letter is written under the letters
directory as <ID>/meta.json plus <ID>/text.txt.

Flags override config file values. Examples:
  collate group                                 # config/home defaults
  collate group --time-gap-seconds 600          # tolerate longer scan pauses
  collate group --single-group                  # whole-book input, no splits
  collate group --overrides fixes.json          # force boundaries after pages`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		req := pipeline.Request{
			InputDir:       resolveDir(cmd, "input-dir", groupInputDir, cfg.Dirs.Input, h.InputDir()),
			TextDir:        resolveDir(cmd, "text-dir", groupTextDir, cfg.Dirs.Text, h.TextDir()),
			LettersDir:     resolveDir(cmd, "letters-dir", groupLetters, cfg.Dirs.Letters, h.LettersDir()),
			TimeGapSeconds: float64(cfg.Grouping.TimeGapSeconds),
			SimThreshold:   cfg.Grouping.SimThreshold,
			SingleGroup:    cfg.Grouping.SingleGroup,
			OverridesPath:  cfg.Grouping.Overrides,
			Logger:         logger,
		}
		if cmd.Flags().Changed("time-gap-seconds") {
			req.TimeGapSeconds = float64(groupTimeGap)
		}
		if cmd.Flags().Changed("sim-threshold") {
			req.SimThreshold = groupSim
		}
		if cmd.Flags().Changed("single-group") {
			req.SingleGroup = groupSingle
		}
		if cmd.Flags().Changed("overrides") {
			req.OverridesPath = groupOverrides
		}

		res, err := pipeline.Run(req)
		if err != nil {
			return err
		}

		return api.Output(res)
	},
}

// resolveDir applies the flag > config > home-layout precedence.
func resolveDir(cmd *cobra.Command, flag, flagVal, cfgVal, homeVal string) string {
	if cmd.Flags().Changed(flag) {
		return flagVal
	}
	if cfgVal != "" {
		return cfgVal
	}
	return homeVal
}

func init() {
	groupCmd.Flags().StringVar(&groupInputDir, "input-dir", "", "directory of page images")
	groupCmd.Flags().StringVar(&groupTextDir, "text-dir", "", "directory of page transcriptions")
	groupCmd.Flags().StringVar(&groupLetters, "letters-dir", "", "output directory for grouped letters")
	groupCmd.Flags().IntVar(&groupTimeGap, "time-gap-seconds", 180, "propose a boundary when the capture gap exceeds this many seconds")
	groupCmd.Flags().Float64Var(&groupSim, "sim-threshold", 0.08, "propose a boundary when adjacent-page similarity falls below this")
	groupCmd.Flags().BoolVar(&groupSingle, "single-group", false, "force all pages into a single letter")
	groupCmd.Flags().StringVar(&groupOverrides, "overrides", "", "JSON file with a break_after list of page stems")

	rootCmd.AddCommand(groupCmd)
}
