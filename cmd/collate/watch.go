package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/collate-dev/collate/internal/config"
	"github.com/collate-dev/collate/internal/home"
	"github.com/collate-dev/collate/internal/pipeline"
	"github.com/collate-dev/collate/internal/watch"
)

var (
	watchInputDir string
	watchTextDir  string
	watchLetters  string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-group letters whenever inputs change",
	Long: `Watch the input, text and override locations and re-run grouping on
every change.

Useful while a batch is being scanned or an override file is being
edited: the letters directory stays current without manual re-runs.
Config file changes are picked up between runs. Stop with Ctrl+C.

Examples:
  collate watch                    # watch config/home defaults
  collate watch --debounce 10s     # settle longer between scanner bursts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.OnChange(func(*config.Config) {
			logger.Info("config reloaded")
		})
		cm.WatchConfig()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Resolved per run so config hot-reloads apply to the next pass.
		request := func() pipeline.Request {
			cfg := cm.Get()
			return pipeline.Request{
				InputDir:       resolveDir(cmd, "input-dir", watchInputDir, cfg.Dirs.Input, h.InputDir()),
				TextDir:        resolveDir(cmd, "text-dir", watchTextDir, cfg.Dirs.Text, h.TextDir()),
				LettersDir:     resolveDir(cmd, "letters-dir", watchLetters, cfg.Dirs.Letters, h.LettersDir()),
				TimeGapSeconds: float64(cfg.Grouping.TimeGapSeconds),
				SimThreshold:   cfg.Grouping.SimThreshold,
				SingleGroup:    cfg.Grouping.SingleGroup,
				OverridesPath:  cfg.Grouping.Overrides,
				Logger:         logger,
			}
		}

		w, err := watch.New(watch.Config{
			Request:  request,
			Debounce: watchDebounce,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		return w.Start(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchInputDir, "input-dir", "", "directory of page images")
	watchCmd.Flags().StringVar(&watchTextDir, "text-dir", "", "directory of page transcriptions")
	watchCmd.Flags().StringVar(&watchLetters, "letters-dir", "", "output directory for grouped letters")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "settle time after the last change before re-running")

	rootCmd.AddCommand(watchCmd)
}
