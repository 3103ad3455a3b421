package segment

import (
	"fmt"
	"sort"

	"github.com/collate-dev/collate/internal/page"
)

// Group is a contiguous, ordered run of pages treated as one logical
// document. IDs are positional (L0001, L0002, ...), assigned in output
// order, and are not stable across runs with different thresholds.
type Group struct {
	ID    string
	Pages []page.Page
}

// GroupPages partitions pages into contiguous groups at the given
// boundary indices. Boundaries are deduplicated, sorted and capped with a
// sentinel at len(pages); out-of-range or duplicate indices are skipped.
// Every page lands in exactly one group and in-group order matches the
// input order.
func GroupPages(pages []page.Page, breaks []int) []Group {
	bounds := append([]int(nil), breaks...)
	bounds = append(bounds, len(pages))
	sort.Ints(bounds)

	var groups []Group
	start := 0
	gid := 1
	for _, b := range bounds {
		if b <= start {
			continue
		}
		if b > len(pages) {
			b = len(pages)
		}
		groups = append(groups, Group{
			ID:    fmt.Sprintf("L%04d", gid),
			Pages: pages[start:b],
		})
		gid++
		start = b
	}
	return groups
}
