package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/collate-dev/collate/internal/pipeline"
)

func TestNewRequiresRequest(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error when Request is nil")
	}
}

func TestNewDefaults(t *testing.T) {
	w, err := New(Config{Request: func() pipeline.Request { return pipeline.Request{} }})
	if err != nil {
		t.Fatal(err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce: got %v, want %v", w.debounce, DefaultDebounce)
	}
	if w.logger == nil {
		t.Error("logger should fall back to slog.Default")
	}
}

func TestStartRunsOnceThenOnChange(t *testing.T) {
	inputDir := t.TempDir()
	textDir := t.TempDir()
	lettersDir := t.TempDir()

	writePage := func(name, text string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(inputDir, name+".png"), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(textDir, name+".txt"), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writePage("p1", "hello world")

	w, err := New(Config{
		Request: func() pipeline.Request {
			return pipeline.Request{
				InputDir:       inputDir,
				TextDir:        textDir,
				LettersDir:     lettersDir,
				TimeGapSeconds: 999999999,
				SimThreshold:   0,
			}
		},
		Debounce: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	waitFor := func(check func() bool, msg string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if check() {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Fatal(msg)
	}

	// Initial run happens before any event.
	waitFor(func() bool {
		_, err := os.Stat(filepath.Join(lettersDir, "L0001", "meta.json"))
		return err == nil
	}, "initial run did not produce output")

	// A new page arriving triggers a re-run that includes it.
	writePage("p2", "hello world again")
	waitFor(func() bool {
		text, err := os.ReadFile(filepath.Join(lettersDir, "L0001", "text.txt"))
		return err == nil && string(text) == "hello worldhello world again"
	}, "change did not trigger a re-run")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStartFailsOnMissingWatchDir(t *testing.T) {
	w, err := New(Config{
		Request: func() pipeline.Request {
			return pipeline.Request{
				InputDir: filepath.Join(t.TempDir(), "nope"),
				TextDir:  t.TempDir(),
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing watch directory")
	}
}
