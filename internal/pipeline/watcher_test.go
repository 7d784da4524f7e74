package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"superpixel-otsu/internal/algorithms/superpixel"
)

func TestWatcherProcessesNewImages(t *testing.T) {
	dir := t.TempDir()
	saver := NewSaver(dir, "CIVE", false, nil)
	coord, err := NewCoordinator(newTestLoader(t, 0), superpixel.NewProcessor(nil), Options{Alpha: 0.5}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coord.WithSaver(saver)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries := make(chan SequenceEntry, 4)
	started := make(chan error, 1)
	go func() {
		started <- NewWatcher(coord, dir, nil).
			WithSettle(50*time.Millisecond).
			WithIgnore(saver.Owns).
			Run(ctx, func(e SequenceEntry) { entries <- e })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)
	writeField(t, filepath.Join(dir, "first.png"))

	select {
	case e := <-entries:
		if filepath.Base(e.Path) != "first.png" {
			t.Errorf("processed %s, want first.png", e.Path)
		}
		if e.Raw != e.Smoothed {
			t.Errorf("first image smoothed %d -> %d", e.Raw, e.Smoothed)
		}
	case err := <-started:
		t.Fatalf("watcher stopped: %v", err)
	case <-ctx.Done():
		t.Fatal("timed out waiting for the watcher")
	}

	// The saved mask must not be fed back into the sequence.
	select {
	case e := <-entries:
		t.Errorf("unexpected entry %s", e.Path)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	if err := <-started; err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
