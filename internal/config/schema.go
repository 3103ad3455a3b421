package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds collate configuration.
// Stored at: ./config.yaml or ~/.collate/config.yaml
type Config struct {
	Dirs     DirsCfg     `mapstructure:"dirs" yaml:"dirs"`
	Grouping GroupingCfg `mapstructure:"grouping" yaml:"grouping"`
	Ingest   IngestCfg   `mapstructure:"ingest" yaml:"ingest"`
}

// DirsCfg locates the pipeline's input and output directories.
// Empty values fall back to the home directory layout (~/.collate/...).
type DirsCfg struct {
	Input   string `mapstructure:"input" yaml:"input"`     // page images
	Text    string `mapstructure:"text" yaml:"text"`       // per-page transcriptions
	Letters string `mapstructure:"letters" yaml:"letters"` // grouped output
}

// GroupingCfg tunes boundary proposal between adjacent pages.
type GroupingCfg struct {
	// TimeGapSeconds proposes a boundary when the capture-time gap between
	// adjacent pages exceeds this many seconds.
	TimeGapSeconds int `mapstructure:"time_gap_seconds" yaml:"time_gap_seconds"`
	// SimThreshold proposes a boundary when adjacent-page lexical
	// similarity falls below this value.
	SimThreshold float64 `mapstructure:"sim_threshold" yaml:"sim_threshold"`
	// SingleGroup disables boundary proposal entirely, forcing every page
	// into one group. Used for whole-book inputs.
	SingleGroup bool `mapstructure:"single_group" yaml:"single_group"`
	// Overrides is the path to a JSON file forcing boundaries after
	// specific pages.
	Overrides string `mapstructure:"overrides" yaml:"overrides"`
}

// IngestCfg tunes PDF page extraction.
type IngestCfg struct {
	// DPI is the render resolution passed to pdftoppm.
	DPI int `mapstructure:"dpi" yaml:"dpi"`
	// MaxWorkers bounds concurrent page renders; 0 means NumCPU.
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`
}

// DefaultConfig returns configuration with the grouping defaults the
// pipeline has always shipped with.
func DefaultConfig() *Config {
	return &Config{
		Grouping: GroupingCfg{
			TimeGapSeconds: 180,
			SimThreshold:   0.08,
		},
		Ingest: IngestCfg{
			DPI: 300,
		},
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Collate configuration
# Empty dirs fall back to the home layout (~/.collate/{input,text,letters})

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
