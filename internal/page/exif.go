package page

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifDateFields are tried in order; the first field that parses wins.
var exifDateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// exifDateLayouts are the accepted date-time string formats, tried in order.
var exifDateLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
}

// ResolveTimestamp recovers the best available capture time for an image:
// embedded EXIF capture date first, file mtime second, nil when both fail.
// A non-empty warning is returned when a timestamp source had to be
// skipped for a reason worth surfacing; a nil timestamp is never an error.
func ResolveTimestamp(path string) (*time.Time, string) {
	ts, warn := exifTime(path)
	if ts != nil {
		return ts, warn
	}

	if fi, err := os.Stat(path); err == nil {
		mt := fi.ModTime()
		return &mt, warn
	}

	if warn == "" {
		warn = fmt.Sprintf("page %s: no capture time available", filepath.Base(path))
	}
	return nil, warn
}

// exifTime reads the embedded capture time. Only JPEG carries EXIF in this
// pipeline; other formats are skipped without comment. An unreadable or
// unparseable EXIF block in a JPEG degrades to mtime but is worth a warning
// so operators can spot scanners that emit broken metadata.
func exifTime(path string) (*time.Time, string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpg" && ext != ".jpeg" {
		return nil, ""
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ""
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Sprintf("page %s: unreadable EXIF, falling back to mtime: %v", filepath.Base(path), err)
	}

	for _, field := range exifDateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		val, err := tag.StringVal()
		if err != nil {
			continue
		}
		for _, layout := range exifDateLayouts {
			if ts, err := time.ParseInLocation(layout, strings.TrimSpace(val), time.Local); err == nil {
				return &ts, ""
			}
		}
	}

	return nil, ""
}
