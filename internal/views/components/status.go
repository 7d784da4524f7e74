package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the position in the sequence and the thresholds of the
// displayed image.
type StatusBar struct {
	container     *fyne.Container
	statusLabel   *widget.Label
	thresholdInfo *widget.Label
	regionInfo    *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel:   widget.NewLabel("No images"),
		thresholdInfo: widget.NewLabel("Threshold: --"),
		regionInfo:    widget.NewLabel("Regions: --"),
	}
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.thresholdInfo,
		widget.NewSeparator(),
		sb.regionInfo,
	)
	return sb
}

// Update must run on the fyne goroutine.
func (sb *StatusBar) Update(position, total int, path string, raw, smoothed, accepted, regions int) {
	sb.statusLabel.SetText(fmt.Sprintf("Image %d/%d: %s", position, total, path))
	if raw == smoothed {
		sb.thresholdInfo.SetText(fmt.Sprintf("Threshold: %d", raw))
	} else {
		sb.thresholdInfo.SetText(fmt.Sprintf("Threshold: %d (raw %d)", smoothed, raw))
	}
	sb.regionInfo.SetText(fmt.Sprintf("Regions: %d/%d accepted", accepted, regions))
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
