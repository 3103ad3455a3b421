// Package segment turns a time-sorted page sequence into contiguous groups.
//
// Boundaries are proposed from two auditable signals between adjacent
// pages: the capture-time gap and the lexical-similarity drop. Manual
// overrides are merged on top, and the final boundary set partitions the
// sequence into sequentially numbered groups.
package segment

import (
	"time"

	"github.com/collate-dev/collate/internal/page"
	"github.com/collate-dev/collate/internal/similarity"
)

// Options tunes boundary proposal.
type Options struct {
	// TimeGapSeconds proposes a boundary when the gap between adjacent
	// capture times exceeds this many seconds.
	TimeGapSeconds float64
	// SimThreshold proposes a boundary when adjacent-page similarity falls
	// below this value.
	SimThreshold float64
	// SingleGroup disables proposal entirely, forcing one group. This is
	// the explicit form of the old trick of passing an enormous time gap
	// and a zero similarity threshold, which still works.
	SingleGroup bool
}

// Propose returns the indices i where a boundary is proposed between
// pages[i-1] and pages[i]. Pages must already be sorted by capture time.
//
// A boundary is proposed when the time gap exceeds Options.TimeGapSeconds
// OR the similarity falls below Options.SimThreshold; either signal alone
// is sufficient. When either adjacent timestamp is missing the gap test is
// skipped and only the similarity test applies. Comparisons are always
// against the immediately preceding page, never the start of the current
// group.
func Propose(pages []page.Page, opts Options) []int {
	if opts.SingleGroup {
		return nil
	}

	var breaks []int
	var prevTS *time.Time
	var prevText string

	for i, pg := range pages {
		if i == 0 {
			prevTS, prevText = pg.Timestamp, pg.Text
			continue
		}

		gapKnown := prevTS != nil && pg.Timestamp != nil
		var gap float64
		if gapKnown {
			gap = pg.Timestamp.Sub(*prevTS).Seconds()
		}
		sim := similarity.Jaccard(prevText, pg.Text)

		if (gapKnown && gap > opts.TimeGapSeconds) || sim < opts.SimThreshold {
			breaks = append(breaks, i)
		}

		prevTS, prevText = pg.Timestamp, pg.Text
	}

	return breaks
}
