// Package watch re-runs the grouping pipeline whenever its inputs change.
//
// Scanned pages usually arrive over time: a batch is scanned, OCR catches
// up, the operator fixes an override file. Watching the input, text and
// override locations keeps the letters directory current without manual
// re-runs. Each triggered run is the same deterministic pipeline as
// `collate group`.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/collate-dev/collate/internal/pipeline"
)

// DefaultDebounce is how long the watcher waits after the last filesystem
// event before re-running, so a burst of scanner writes triggers one run.
const DefaultDebounce = 2 * time.Second

// Config configures a Watcher.
type Config struct {
	// Request returns the pipeline request for the next run. It is called
	// fresh on every trigger so config hot-reloads take effect without
	// restarting the watcher.
	Request func() pipeline.Request

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// Logger is optional; slog.Default() is used when nil.
	Logger *slog.Logger
}

// Watcher re-runs the grouping pipeline when watched paths change.
type Watcher struct {
	request  func() pipeline.Request
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher. Config.Request is required.
func New(cfg Config) (*Watcher, error) {
	if cfg.Request == nil {
		return nil, errors.New("watch: Request is required")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		request:  cfg.Request,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Start runs the pipeline once, then blocks re-running it on input changes
// until ctx is cancelled. Failed runs are logged and watching continues;
// only a broken watch itself returns an error.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	req := w.request()
	for _, dir := range watchPaths(req) {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Info("watching", "path", dir)
	}

	w.run()

	// The timer is armed on the first event of a burst and drained on
	// expiry; a stopped timer with no pending run keeps the loop idle.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("watch event channel closed")
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("input changed", "path", ev.Name, "op", ev.Op.String())
			if pending {
				if !timer.Stop() {
					<-timer.C
				}
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watch error channel closed")
			}
			w.logger.Warn("watch error", "err", err)
		case <-timer.C:
			pending = false
			w.run()
		}
	}
}

// run executes one pipeline pass with a freshly resolved request.
func (w *Watcher) run() {
	req := w.request()
	res, err := pipeline.Run(req)
	if err != nil {
		w.logger.Error("grouping run failed", "err", err)
		return
	}
	w.logger.Info("grouping run complete", "groups", len(res.Groups), "warnings", len(res.Warnings))
}

// watchPaths returns the locations whose changes should trigger a re-run.
func watchPaths(req pipeline.Request) []string {
	paths := []string{req.InputDir, req.TextDir}
	if req.OverridesPath != "" {
		// Watch the containing directory: editors replace files on save,
		// which unregisters a watch on the file itself.
		paths = append(paths, filepath.Dir(req.OverridesPath))
	}
	return paths
}

// relevant filters out events that cannot change a run's output.
func relevant(ev fsnotify.Event) bool {
	return ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Remove) ||
		ev.Op.Has(fsnotify.Rename)
}
