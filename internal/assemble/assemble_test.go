package assemble

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/collate-dev/collate/internal/page"
	"github.com/collate-dev/collate/internal/segment"
)

func sampleGroups() []segment.Group {
	ts := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	return []segment.Group{
		{
			ID: "L0001",
			Pages: []page.Page{
				{ImagePath: "in/p1.jpg", Base: "p1", TextPath: "text/p1.txt", Timestamp: &ts, Text: "Lieber Hans, "},
				{ImagePath: "in/p2.jpg", Base: "p2", TextPath: "text/p2.txt", Text: "viele Grüße"},
			},
		},
		{
			ID: "L0002",
			Pages: []page.Page{
				{ImagePath: "in/p3.jpg", Base: "p3", TextPath: "text/p3.txt", Text: "unrelated"},
			},
		},
	}
}

func TestWriteGroups(t *testing.T) {
	dir := t.TempDir()
	if err := WriteGroups(dir, sampleGroups(), nil); err != nil {
		t.Fatal(err)
	}

	// Concatenation has no separators, headers or markers.
	text, err := os.ReadFile(filepath.Join(dir, "L0001", TextFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "Lieber Hans, viele Grüße" {
		t.Errorf("text: got %q", string(text))
	}

	metaRaw, err := os.ReadFile(filepath.Join(dir, "L0001", MetaFileName))
	if err != nil {
		t.Fatal(err)
	}
	var meta struct {
		ID    string `json:"id"`
		Pages []struct {
			ImagePath string  `json:"image_path"`
			Base      string  `json:"base"`
			TextPath  string  `json:"text_path"`
			Timestamp *string `json:"timestamp"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.ID != "L0001" {
		t.Errorf("id: got %q", meta.ID)
	}
	if len(meta.Pages) != 2 {
		t.Fatalf("pages: got %d, want 2", len(meta.Pages))
	}
	if meta.Pages[0].Timestamp == nil || *meta.Pages[0].Timestamp != "2021-03-01T10:00:00" {
		t.Errorf("timestamp: got %v", meta.Pages[0].Timestamp)
	}
	if meta.Pages[1].Timestamp != nil {
		t.Errorf("missing timestamp must serialize as null, got %q", *meta.Pages[1].Timestamp)
	}
	if meta.Pages[0].ImagePath != "in/p1.jpg" || meta.Pages[0].Base != "p1" {
		t.Errorf("page descriptor: got %+v", meta.Pages[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "L0002", MetaFileName)); err != nil {
		t.Errorf("second group not written: %v", err)
	}
}

func TestWriteGroupsDeterministic(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	if err := WriteGroups(dirA, sampleGroups(), nil); err != nil {
		t.Fatal(err)
	}
	if err := WriteGroups(dirB, sampleGroups(), nil); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		filepath.Join("L0001", MetaFileName),
		filepath.Join("L0001", TextFileName),
		filepath.Join("L0002", MetaFileName),
		filepath.Join("L0002", TextFileName),
	} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, name))
		if err != nil {
			t.Fatal(err)
		}
		if string(a) != string(b) {
			t.Errorf("%s differs between identical runs", name)
		}
	}
}

func TestWriteGroupsCleansInjectedNumbering(t *testing.T) {
	dir := t.TempDir()
	groups := []segment.Group{{
		ID: "L0001",
		Pages: []page.Page{
			{Base: "p1", Text: "1. a\n2. b\n3. c\n4. d\n"},
		},
	}}
	if err := WriteGroups(dir, groups, nil); err != nil {
		t.Fatal(err)
	}

	text, err := os.ReadFile(filepath.Join(dir, "L0001", TextFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "a\nb\nc\nd\n" {
		t.Errorf("got %q", string(text))
	}
}
