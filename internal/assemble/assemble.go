package assemble

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/collate-dev/collate/internal/segment"
)

const (
	// MetaFileName is the per-group metadata file.
	MetaFileName = "meta.json"

	// TextFileName is the per-group concatenated transcription.
	TextFileName = "text.txt"

	// timestampLayout is ISO-8601 without zone, matching the capture
	// times recorded in metadata.
	timestampLayout = "2006-01-02T15:04:05"
)

// pageMeta is one page descriptor inside meta.json.
type pageMeta struct {
	ImagePath string  `json:"image_path"`
	Base      string  `json:"base"`
	TextPath  string  `json:"text_path"`
	Timestamp *string `json:"timestamp"`
}

// groupMeta is the serialized form of one group's meta.json.
type groupMeta struct {
	ID    string     `json:"id"`
	Pages []pageMeta `json:"pages"`
}

// WriteGroups persists each group under lettersDir/<ID>/: a meta.json
// record and a concatenated text file. Outputs are byte-identical across
// reruns on identical inputs; page texts are numbering-cleaned and joined
// with no separators, headers or markers, in page order.
func WriteGroups(lettersDir string, groups []segment.Group, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	for _, g := range groups {
		dir := filepath.Join(lettersDir, g.ID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create group directory %s: %w", dir, err)
		}

		meta, err := encodeMeta(g)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", g.ID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, MetaFileName), meta, 0o644); err != nil {
			return fmt.Errorf("failed to write metadata for %s: %w", g.ID, err)
		}

		var text bytes.Buffer
		for _, pg := range g.Pages {
			text.WriteString(CleanNumbering(pg.Text))
		}
		if err := os.WriteFile(filepath.Join(dir, TextFileName), text.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write text for %s: %w", g.ID, err)
		}

		log.Debug("wrote group", "id", g.ID, "pages", len(g.Pages), "chars", text.Len())
	}

	return nil
}

// encodeMeta renders meta.json with two-space indentation and UTF-8 left
// unescaped, so reruns produce the same bytes.
func encodeMeta(g segment.Group) ([]byte, error) {
	meta := groupMeta{
		ID:    g.ID,
		Pages: make([]pageMeta, 0, len(g.Pages)),
	}
	for _, pg := range g.Pages {
		var ts *string
		if pg.Timestamp != nil {
			s := pg.Timestamp.Format(timestampLayout)
			ts = &s
		}
		meta.Pages = append(meta.Pages, pageMeta{
			ImagePath: pg.ImagePath,
			Base:      pg.Base,
			TextPath:  pg.TextPath,
			Timestamp: ts,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
