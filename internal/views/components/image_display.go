package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
)

const (
	ImageAreaWidth  = 420
	ImageAreaHeight = 320
)

// ImageDisplay shows the original image, its color index and the mask side by
// side.
type ImageDisplay struct {
	container *fyne.Container
	original  *canvas.Image
	index     *canvas.Image
	mask      *canvas.Image
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{
		original: newPane(),
		index:    newPane(),
		mask:     newPane(),
	}
	display.container = container.NewGridWithColumns(3,
		titled("**Original**", display.original),
		titled("**Color index**", display.index),
		titled("**Mask**", display.mask),
	)
	return display
}

func newPane() *canvas.Image {
	img := canvas.NewImageFromImage(placeholder())
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return img
}

func titled(title string, img *canvas.Image) fyne.CanvasObject {
	return container.NewBorder(
		widget.NewRichTextFromMarkdown(title),
		nil, nil, nil,
		container.NewStack(canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255}), img),
	)
}

func placeholder() image.Image {
	return imaging.New(ImageAreaWidth, ImageAreaHeight, color.RGBA{R: 240, G: 240, B: 240, A: 255})
}

// Thumbnail downsizes img to fit the display area. Nil yields the placeholder.
func Thumbnail(img image.Image) image.Image {
	if img == nil {
		return placeholder()
	}
	return imaging.Fit(img, ImageAreaWidth, ImageAreaHeight, imaging.Box)
}

// SetImages replaces all three panes. It must run on the fyne goroutine.
func (id *ImageDisplay) SetImages(original, index, mask image.Image) {
	for _, pane := range []struct {
		target *canvas.Image
		img    image.Image
	}{{id.original, original}, {id.index, index}, {id.mask, mask}} {
		pane.target.Image = Thumbnail(pane.img)
		pane.target.Refresh()
	}
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
