package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar steps through the images of a sequence.
type Toolbar struct {
	container  *fyne.Container
	prevButton *widget.Button
	nextButton *widget.Button
	lastButton *widget.Button

	prevHandler func()
	nextHandler func()
	lastHandler func()
}

func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.prevButton = widget.NewButtonWithIcon("Previous", theme.NavigateBackIcon(), func() {
		if t.prevHandler != nil {
			t.prevHandler()
		}
	})
	t.nextButton = widget.NewButtonWithIcon("Next", theme.NavigateNextIcon(), func() {
		if t.nextHandler != nil {
			t.nextHandler()
		}
	})
	t.lastButton = widget.NewButtonWithIcon("Latest", theme.MediaFastForwardIcon(), func() {
		if t.lastHandler != nil {
			t.lastHandler()
		}
	})
	t.container = container.NewHBox(t.prevButton, t.nextButton, widget.NewSeparator(), t.lastButton)
	return t
}

func (t *Toolbar) SetPrevHandler(handler func()) { t.prevHandler = handler }
func (t *Toolbar) SetNextHandler(handler func()) { t.nextHandler = handler }
func (t *Toolbar) SetLastHandler(handler func()) { t.lastHandler = handler }

// SetPosition enables the buttons that lead somewhere. It must run on the fyne
// goroutine.
func (t *Toolbar) SetPosition(current, total int) {
	setEnabled(t.prevButton, current > 0)
	setEnabled(t.nextButton, current < total-1)
	setEnabled(t.lastButton, current < total-1)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
