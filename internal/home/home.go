// Package home manages the collate home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the collate home directory.
	DefaultDirName = ".collate"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// InputDirName holds page images waiting to be grouped.
	InputDirName = "input"

	// TextDirName holds per-page transcription files, one per image stem.
	TextDirName = "text"

	// LettersDirName holds per-group output directories.
	LettersDirName = "letters"
)

// Dir represents the collate home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.collate).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// InputDir returns the default directory for page images.
func (d *Dir) InputDir() string {
	return filepath.Join(d.path, InputDirName)
}

// TextDir returns the default directory for page transcriptions.
func (d *Dir) TextDir() string {
	return filepath.Join(d.path, TextDirName)
}

// LettersDir returns the default directory for grouped letter output.
func (d *Dir) LettersDir() string {
	return filepath.Join(d.path, LettersDirName)
}

// EnsureExists creates the home directory and subdirectories if they
// don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.InputDir(), d.TextDir(), d.LettersDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
