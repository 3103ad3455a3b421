// Package page builds the in-memory representation of scanned pages.
//
// A page is one scanned image plus its transcription, keyed by the image
// filename stem. Pages are built once per run and treated as immutable
// input by everything downstream.
package page

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Page is one scanned image plus its transcribed text.
type Page struct {
	// ImagePath locates the source image. Read-only reference.
	ImagePath string
	// Base is the filename stem, unique within a run, used as the stable
	// cross-reference key for overrides and metadata.
	Base string
	// TextPath locates the transcription file. It may not exist, in which
	// case Text is empty.
	TextPath string
	// Timestamp is the best available capture time, nil when neither
	// embedded metadata nor filesystem time is available. Nil sorts as the
	// earliest possible value.
	Timestamp *time.Time
	// Text is the raw transcribed content. Never mutated.
	Text string
}

// imageExts are the accepted page-image extensions, matched
// case-insensitively.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ListImages returns the page images in dir, sorted by name.
// Name order is only an initial pass; Build re-sorts by capture time.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// Build constructs Pages for the given images, resolving timestamps and
// loading transcriptions from textDir (<base>.txt). The returned sequence
// is sorted by (timestamp, base); nil timestamps sort first. Per-page
// problems degrade to safe defaults and are reported as warnings rather
// than failing the run.
func Build(imagePaths []string, textDir string) ([]Page, []string) {
	var warnings []string
	pages := make([]Page, 0, len(imagePaths))

	for _, img := range imagePaths {
		base := strings.TrimSuffix(filepath.Base(img), filepath.Ext(img))

		ts, warn := ResolveTimestamp(img)
		if warn != "" {
			warnings = append(warnings, warn)
		}

		textPath := filepath.Join(textDir, base+".txt")
		text, err := readText(textPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %s: unreadable transcription %s: %v", base, textPath, err))
		}

		pages = append(pages, Page{
			ImagePath: img,
			Base:      base,
			TextPath:  textPath,
			Timestamp: ts,
			Text:      text,
		})
	}

	// Sort by timestamp then by name for stability; nil timestamps
	// cluster at the start.
	sort.Slice(pages, func(i, j int) bool {
		ti := sortTime(pages[i].Timestamp)
		tj := sortTime(pages[j].Timestamp)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return pages[i].Base < pages[j].Base
	})

	return pages, warnings
}

// readText loads a transcription file. A missing file is the normal
// pre-OCR state and yields empty text without error; any other read
// failure is reported so the caller can surface it.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func sortTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
