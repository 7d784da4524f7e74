package pipeline

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"superpixel-otsu/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is processed.
const DefaultSettle = 500 * time.Millisecond

// Watcher feeds images appearing in a directory through a coordinator as one
// live sequence, in order of first appearance.
type Watcher struct {
	coordinator *Coordinator
	dir         string
	settle      time.Duration
	ignore      func(path string) bool
	logger      logger.Logger
}

func NewWatcher(coordinator *Coordinator, dir string, log logger.Logger) *Watcher {
	return &Watcher{
		coordinator: coordinator,
		dir:         dir,
		settle:      DefaultSettle,
		ignore:      func(string) bool { return false },
		logger:      logger.OrNop(log),
	}
}

// WithSettle overrides DefaultSettle.
func (w *Watcher) WithSettle(d time.Duration) *Watcher {
	w.settle = d
	return w
}

// WithIgnore skips paths for which ignore returns true, typically the
// watcher's own outputs.
func (w *Watcher) WithIgnore(ignore func(path string) bool) *Watcher {
	w.ignore = ignore
	return w
}

// Run blocks until ctx is cancelled, calling handle for every processed image.
// Images that fail are logged and skipped without ending the sequence.
func (w *Watcher) Run(ctx context.Context, handle func(SequenceEntry)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return errors.Wrapf(err, "watching %s", w.dir)
	}
	seq, err := w.coordinator.NewSequence()
	if err != nil {
		return err
	}

	w.logger.Info("Watcher", "watching directory", map[string]interface{}{"dir": w.dir})

	var order []string
	lastEvent := make(map[string]time.Time)
	done := make(map[string]bool)
	interval := w.settle / 2
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if done[ev.Name] || !IsImage(ev.Name) || w.ignore(ev.Name) {
				continue
			}
			if _, seen := lastEvent[ev.Name]; !seen {
				order = append(order, ev.Name)
			}
			lastEvent[ev.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher", err, map[string]interface{}{"dir": w.dir})

		case now := <-ticker.C:
			// Process in arrival order; a file still being written holds back
			// the ones behind it.
			for len(order) > 0 {
				path := order[0]
				if now.Sub(lastEvent[path]) < w.settle {
					break
				}
				order = order[1:]
				delete(lastEvent, path)
				done[path] = true

				entry, err := w.coordinator.ProcessNext(ctx, path, seq)
				if err != nil {
					w.logger.Error("Watcher", err, map[string]interface{}{"path": path})
					continue
				}
				handle(entry)
			}
		}
	}
}
