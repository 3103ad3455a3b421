package segment

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/collate-dev/collate/internal/page"
)

// overrideSchema validates the override file shape before use. Unknown
// extra keys are permitted so old override files keep working.
const overrideSchema = `{
  "type": "object",
  "required": ["break_after"],
  "properties": {
    "break_after": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var compiledOverrideSchema = jsonschema.MustCompileString("overrides.json", overrideSchema)

// overrideSpec mirrors the override file: {"break_after": ["<base>", ...]}.
type overrideSpec struct {
	BreakAfter []string `json:"break_after"`
}

// ApplyOverrides merges user-forced boundaries into the proposed set.
//
// A missing path or file leaves the proposal unchanged. A file that fails
// to parse or validate also leaves it unchanged — an override problem must
// never abort the run — but is reported as a warning instead of being
// swallowed. For each named base found in the page sequence, a boundary is
// inserted immediately after its index unless that index is already the
// end of the sequence. The result is deduplicated and sorted, so applying
// the same file twice is a no-op.
func ApplyOverrides(breaks []int, pages []page.Page, path string) ([]int, []string) {
	if path == "" {
		return breaks, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return breaks, nil
		}
		return breaks, []string{fmt.Sprintf("overrides %s ignored: %v", path, err)}
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return breaks, []string{fmt.Sprintf("overrides %s ignored: invalid JSON: %v", path, err)}
	}
	if err := compiledOverrideSchema.Validate(raw); err != nil {
		return breaks, []string{fmt.Sprintf("overrides %s ignored: %v", path, err)}
	}

	var spec overrideSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return breaks, []string{fmt.Sprintf("overrides %s ignored: %v", path, err)}
	}

	nameToIndex := make(map[string]int, len(pages))
	for i, pg := range pages {
		nameToIndex[pg.Base] = i
	}

	merged := append([]int(nil), breaks...)
	var warnings []string
	for _, base := range spec.BreakAfter {
		idx, ok := nameToIndex[base]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("overrides %s: unknown page %q", path, base))
			continue
		}
		if idx+1 >= len(pages) {
			continue // already the end of the sequence
		}
		merged = append(merged, idx+1)
	}

	return normalizeBreaks(merged), warnings
}

// normalizeBreaks deduplicates and sorts a boundary set.
func normalizeBreaks(breaks []int) []int {
	if len(breaks) == 0 {
		return breaks
	}
	seen := make(map[int]bool, len(breaks))
	out := breaks[:0]
	for _, b := range breaks {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	sort.Ints(out)
	return out
}
