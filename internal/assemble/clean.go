// Package assemble materializes grouped pages as on-disk letters.
package assemble

import (
	"regexp"
	"strconv"
	"strings"
)

// numberingPattern matches an injected line-number prefix such as
// "1. " or "23) " at the start of a line.
var numberingPattern = regexp.MustCompile(`^\s*(\d{1,4})[.)]\s+`)

// CleanNumbering removes spurious sequential line numbering that the
// upstream extraction step sometimes injects, such as "1. ...", "2) ..."
// at line starts. Numbering is only treated as injected when it forms a
// sequential run of at least 4 lines starting at 1 or 2; shorter numeric
// runs are legitimate content and are preserved. Control characters other
// than newlines and tabs are always removed.
func CleanNumbering(text string) string {
	text = stripControl(text)
	lines := strings.Split(text, "\n")

	// Find the longest sequential numbered run.
	longest, run := 0, 0
	last := -1
	for _, ln := range lines {
		m := numberingPattern.FindStringSubmatch(ln)
		if m == nil {
			if run > longest {
				longest = run
			}
			run, last = 0, -1
			continue
		}
		n, _ := strconv.Atoi(m[1])
		switch {
		case last < 0 && (n == 1 || n == 2):
			run, last = 1, n
		case last >= 0 && n == last+1:
			run, last = run+1, n
		default:
			if run > longest {
				longest = run
			}
			if n == 1 || n == 2 {
				run, last = 1, n
			} else {
				run, last = 0, -1
			}
		}
	}
	if run > longest {
		longest = run
	}

	if longest < 4 {
		return text
	}

	cleaned := make([]string, len(lines))
	for i, ln := range lines {
		cleaned[i] = numberingPattern.ReplaceAllString(ln, "")
	}
	return strings.Join(cleaned, "\n")
}

// stripControl removes control characters except newlines, carriage
// returns and tabs.
func stripControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
