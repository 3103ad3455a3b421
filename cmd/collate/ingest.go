package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/collate-dev/collate/internal/api"
	"github.com/collate-dev/collate/internal/config"
	"github.com/collate-dev/collate/internal/home"
	"github.com/collate-dev/collate/internal/ingest"
)

var (
	ingestInputDir string
	ingestPrefix   string
	ingestDPI      int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <pdf> [pdf...]",
	Short: "Extract page images from scanned PDFs",
	Long: `Extract page images from scanned PDFs into the input directory.

Multi-part PDFs are ordered by numeric suffix (batch-1.pdf, batch-2.pdf,
...) and rendered one page per PNG so 'collate group' can run on them.
Requires pdftoppm (poppler-utils) on PATH.

Examples:
  collate ingest scans.pdf
  collate ingest box3-1.pdf box3-2.pdf --prefix box3`,
	Args: cobra.MinimumNArgs(1),
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

		dpi := cfg.Ingest.DPI
		if cmd.Flags().Changed("dpi") {
			dpi = ingestDPI
		}

		res, err := ingest.Ingest(ingest.Request{
			PDFPaths:   args,
			InputDir:   resolveDir(cmd, "input-dir", ingestInputDir, cfg.Dirs.Input, h.InputDir()),
			Prefix:     ingestPrefix,
			DPI:        dpi,
			MaxWorkers: cfg.Ingest.MaxWorkers,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		return api.Output(res)
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestInputDir, "input-dir", "", "destination directory for page images")
	ingestCmd.Flags().StringVar(&ingestPrefix, "prefix", "", "image name prefix (default: derived from first PDF)")
	ingestCmd.Flags().IntVar(&ingestDPI, "dpi", 300, "render resolution")

	rootCmd.AddCommand(ingestCmd)
}
