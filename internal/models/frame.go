package models

import "image"

// Frame is one image of a sequence ready for thresholding: the derived index
// image, its region labels and the polarity of the index that produced it.
type Frame struct {
	Path     string
	Original image.Image
	Index    *IntensityImage
	Labels   *LabelMap
	Invert   bool
}

// FrameResult carries everything needed to report a frame and to rebuild its
// mask with a different threshold.
type FrameResult struct {
	Path string
	// Raw is the scan outcome for this frame alone.
	Raw ThresholdResult
	// Threshold is the value Mask was built with. It differs from Raw.Threshold
	// after temporal smoothing.
	Threshold int
	Mask      *Mask
	Accepted  int
	Regions   int
	// DropOut holds the per-region values used for the mask.
	DropOut []float64
	Invert  bool
	// K is the acceptance fraction selected by the percentage sweep.
	K float64
	// Plateau is the first and last threshold sharing Raw's maximal variance.
	Plateau [2]int
}
