// Package pipeline runs one deterministic grouping pass: build pages,
// propose boundaries, merge overrides, partition, persist.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/collate-dev/collate/internal/assemble"
	"github.com/collate-dev/collate/internal/page"
	"github.com/collate-dev/collate/internal/segment"
)

// Request contains the parameters for one grouping run. All configuration
// is explicit so the pipeline can be exercised without process arguments.
type Request struct {
	InputDir   string // page images
	TextDir    string // per-page transcriptions
	LettersDir string // grouped output

	TimeGapSeconds float64
	SimThreshold   float64
	SingleGroup    bool
	OverridesPath  string // optional

	Logger *slog.Logger // optional logger for progress updates
}

// GroupSummary describes one produced group.
type GroupSummary struct {
	ID    string   `json:"id" yaml:"id"`
	Pages []string `json:"pages" yaml:"pages"`
}

// Result reports a completed run, including warnings for every problem
// that degraded to a default instead of failing the run.
type Result struct {
	Groups   []GroupSummary `json:"groups" yaml:"groups"`
	Warnings []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Run executes the grouping pipeline. It fails only when there is nothing
// to group or an output cannot be written; every per-page or per-file
// problem degrades to a safe default and surfaces in Result.Warnings.
func Run(req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	images, err := page.ListImages(req.InputDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images in %s", req.InputDir)
	}

	pages, warnings := page.Build(images, req.TextDir)
	log.Info("built pages", "count", len(pages), "input", req.InputDir)

	breaks := segment.Propose(pages, segment.Options{
		TimeGapSeconds: req.TimeGapSeconds,
		SimThreshold:   req.SimThreshold,
		SingleGroup:    req.SingleGroup,
	})

	breaks, overrideWarnings := segment.ApplyOverrides(breaks, pages, req.OverridesPath)
	warnings = append(warnings, overrideWarnings...)

	groups := segment.GroupPages(pages, breaks)
	log.Info("proposed groups", "groups", len(groups), "boundaries", len(breaks))

	if err := assemble.WriteGroups(req.LettersDir, groups, log); err != nil {
		return nil, err
	}

	for _, w := range warnings {
		log.Warn(w)
	}

	res := &Result{Warnings: warnings}
	for _, g := range groups {
		summary := GroupSummary{ID: g.ID}
		for _, pg := range g.Pages {
			summary.Pages = append(summary.Pages, pg.Base)
		}
		res.Groups = append(res.Groups, summary)
	}
	return res, nil
}
