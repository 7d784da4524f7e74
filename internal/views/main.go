// Package views renders sequence results in a fyne window.
package views

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"superpixel-otsu/internal/pipeline"
	"superpixel-otsu/internal/views/components"
)

// ResultView browses the entries of a sequence. Entries may be appended from
// any goroutine while the window is open.
type ResultView struct {
	window  fyne.Window
	display *components.ImageDisplay
	status  *components.StatusBar
	toolbar *components.Toolbar

	mu      sync.Mutex
	entries []pipeline.SequenceEntry
	current int
	follow  bool
}

func NewResultView(window fyne.Window) *ResultView {
	rv := &ResultView{
		window:  window,
		display: components.NewImageDisplay(),
		status:  components.NewStatusBar(),
		toolbar: components.NewToolbar(),
		current: -1,
		follow:  true,
	}

	rv.toolbar.SetPrevHandler(func() { rv.step(-1) })
	rv.toolbar.SetNextHandler(func() { rv.step(1) })
	rv.toolbar.SetLastHandler(func() { rv.Show(rv.Len() - 1) })
	rv.toolbar.SetPosition(0, 0)

	window.SetContent(container.NewBorder(
		rv.toolbar.GetContainer(),
		rv.status.GetContainer(),
		nil, nil,
		rv.display.GetContainer(),
	))
	return rv
}

// Append adds an entry and shows it when the view is following the latest
// image.
func (rv *ResultView) Append(entry pipeline.SequenceEntry) {
	rv.mu.Lock()
	rv.entries = append(rv.entries, entry)
	last := len(rv.entries) - 1
	follow := rv.follow
	rv.mu.Unlock()

	if follow {
		rv.Show(last)
	}
}

func (rv *ResultView) Len() int {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	return len(rv.entries)
}

// Current returns the index of the displayed entry, -1 before the first one.
func (rv *ResultView) Current() int {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	return rv.current
}

func (rv *ResultView) step(delta int) {
	rv.Show(rv.Current() + delta)
}

// Show displays entry i. Out of range indices are ignored.
func (rv *ResultView) Show(i int) {
	rv.mu.Lock()
	if i < 0 || i >= len(rv.entries) {
		rv.mu.Unlock()
		return
	}
	rv.current = i
	rv.follow = i == len(rv.entries)-1
	entry := rv.entries[i]
	total := len(rv.entries)
	rv.mu.Unlock()

	var original, index, mask image.Image
	if entry.Frame != nil {
		original = entry.Frame.Original
		if entry.Frame.Index != nil {
			index = entry.Frame.Index.ToGray()
		}
	}
	if entry.Mask != nil {
		mask = entry.Mask.ToGray()
	}

	fyne.Do(func() {
		rv.display.SetImages(original, index, mask)

		accepted, regions := 0, 0
		if entry.Result != nil {
			accepted, regions = entry.Result.Accepted, entry.Result.Regions
		}
		rv.status.Update(i+1, total, entry.Path, entry.Raw, entry.Smoothed, accepted, regions)
		rv.toolbar.SetPosition(i, total)
	})
}

// Run opens a window over entries and blocks until it is closed.
func Run(title string, entries []pipeline.SequenceEntry) {
	RunLive(title, func(rv *ResultView) {
		for _, e := range entries {
			rv.Append(e)
		}
		rv.Show(0)
	})
}

// RunLive opens a window and hands its view to start, which runs in its own
// goroutine and feeds the view with Append. The call blocks until the window
// is closed.
func RunLive(title string, start func(*ResultView)) {
	a := app.New()
	w := a.NewWindow(title)
	rv := NewResultView(w)
	go start(rv)
	w.ShowAndRun()
}
