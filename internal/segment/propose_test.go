package segment

import (
	"reflect"
	"testing"
	"time"

	"github.com/collate-dev/collate/internal/page"
)

func pageAt(base string, offsetSeconds int, text string) page.Page {
	ts := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(offsetSeconds) * time.Second)
	return page.Page{Base: base, Timestamp: &ts, Text: text}
}

func pageNoTime(base, text string) page.Page {
	return page.Page{Base: base, Text: text}
}

// Three pages: P1 and P2 are close in time and vocabulary, P3 is far away.
func specPages() []page.Page {
	return []page.Page{
		pageAt("P1", 0, "hello world"),
		pageAt("P2", 60, "hello world again"),
		pageAt("P3", 10000, "completely unrelated content"),
	}
}

func TestPropose(t *testing.T) {
	tests := []struct {
		name     string
		pages    []page.Page
		opts     Options
		expected []int
	}{
		{
			name:     "time gap splits",
			pages:    specPages(),
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3},
			expected: []int{2},
		},
		{
			name:     "extreme thresholds disable both signals",
			pages:    specPages(),
			opts:     Options{TimeGapSeconds: 999999999, SimThreshold: 0},
			expected: nil,
		},
		{
			name:     "single group mode",
			pages:    specPages(),
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3, SingleGroup: true},
			expected: nil,
		},
		{
			name: "similarity drop alone splits",
			pages: []page.Page{
				pageAt("P1", 0, "hello world"),
				pageAt("P2", 10, "completely unrelated content"),
			},
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3},
			expected: []int{1},
		},
		{
			name: "either signal is sufficient",
			pages: []page.Page{
				pageAt("P1", 0, "hello world"),
				pageAt("P2", 5000, "hello world"),
			},
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3},
			expected: []int{1},
		},
		{
			name: "missing timestamp skips gap test",
			pages: []page.Page{
				pageNoTime("P1", "hello world"),
				pageAt("P2", 100000, "hello world"),
			},
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3},
			expected: nil,
		},
		{
			name: "missing timestamp still applies similarity test",
			pages: []page.Page{
				pageNoTime("P1", "hello world"),
				pageNoTime("P2", "completely unrelated content"),
			},
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3},
			expected: []int{1},
		},
		{
			name:     "single page never splits",
			pages:    []page.Page{pageAt("P1", 0, "hello")},
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3},
			expected: nil,
		},
		{
			name:     "empty input",
			pages:    nil,
			opts:     Options{TimeGapSeconds: 180, SimThreshold: 0.3},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Propose(tt.pages, tt.opts)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

// Comparisons must always run against the immediately preceding page, not
// the first page of the current group.
func TestProposeComparesAdjacentPages(t *testing.T) {
	pages := []page.Page{
		pageAt("P1", 0, "alpha beta gamma"),
		pageAt("P2", 10, "gamma delta epsilon"),
		pageAt("P3", 20, "epsilon zeta eta"),
	}
	// P3 shares nothing with P1, but plenty with P2: no break expected.
	got := Propose(pages, Options{TimeGapSeconds: 180, SimThreshold: 0.15})
	if len(got) != 0 {
		t.Errorf("expected no breaks, got %v", got)
	}
}

// Loosening both thresholds must never increase the number of groups.
func TestProposeThresholdMonotonicity(t *testing.T) {
	pages := []page.Page{
		pageAt("P1", 0, "hello world"),
		pageAt("P2", 300, "hello world again"),
		pageAt("P3", 10000, "completely unrelated content"),
		pageAt("P4", 10030, "unrelated content continues here"),
	}

	tight := Propose(pages, Options{TimeGapSeconds: 180, SimThreshold: 0.5})
	loose := Propose(pages, Options{TimeGapSeconds: 20000, SimThreshold: 0.0})

	if len(loose) > len(tight) {
		t.Errorf("loosening thresholds added breaks: tight=%v loose=%v", tight, loose)
	}
	// Loose breaks must be a subset of tight breaks.
	tightSet := map[int]bool{}
	for _, b := range tight {
		tightSet[b] = true
	}
	for _, b := range loose {
		if !tightSet[b] {
			t.Errorf("break %d appeared only under loose thresholds", b)
		}
	}
}
