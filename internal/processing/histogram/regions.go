package histogram

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"superpixel-otsu/internal/models"
)

// maxParallelBins bounds the memory spent on per-worker partial histograms.
const maxParallelBins = 1 << 24

// RegionBuilder aggregates one intensity histogram per region.
type RegionBuilder struct {
	workers int
}

// NewRegionBuilder returns a builder using up to workers goroutines. A value
// below 1 selects runtime.NumCPU().
func NewRegionBuilder(workers int) *RegionBuilder {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &RegionBuilder{workers: workers}
}

// Build returns the histograms indexed by region id. Labels must form a dense
// id space: every id non-negative and the largest id below the pixel count.
// Ids without pixels yield empty histograms.
func (b *RegionBuilder) Build(img *models.IntensityImage, labels *models.LabelMap) ([]models.Histogram, error) {
	count, err := RegionCount(img, labels)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []models.Histogram{}, nil
	}

	workers := b.workers
	if workers > labels.Height {
		workers = labels.Height
	}
	if workers <= 1 || count*models.Levels*workers > maxParallelBins {
		hists := make([]models.Histogram, count)
		accumulate(hists, img, labels, 0, labels.Height)
		return hists, nil
	}

	partials := make([][]models.Histogram, workers)
	rowsPer := (labels.Height + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPer
		end := start + rowsPer
		if end > labels.Height {
			end = labels.Height
		}
		partials[w] = make([]models.Histogram, count)
		wg.Add(1)
		go func(dst []models.Histogram, start, end int) {
			defer wg.Done()
			accumulate(dst, img, labels, start, end)
		}(partials[w], start, end)
	}
	wg.Wait()

	hists := partials[0]
	for _, part := range partials[1:] {
		for r := range part {
			for i := 0; i < models.Levels; i++ {
				hists[r][i] += part[r][i]
			}
		}
	}
	return hists, nil
}

// RegionCount validates the grids and returns the number of regions. Every id
// in 0..R-1 must occur at least once.
func RegionCount(img *models.IntensityImage, labels *models.LabelMap) (int, error) {
	if img == nil || labels == nil {
		return 0, errors.Wrap(models.ErrInvalidInput, "nil intensity or label grid")
	}
	if !labels.SameShape(img) {
		return 0, errors.Wrapf(models.ErrInvalidInput, "shape mismatch: intensity %dx%d, labels %dx%d",
			img.Width, img.Height, labels.Width, labels.Height)
	}
	maxID := -1
	for i, id := range labels.Labels {
		if id < 0 {
			return 0, errors.Wrapf(models.ErrInvalidInput, "label %d at (%d,%d) is negative",
				id, i%labels.Width, i/labels.Width)
		}
		if id > maxID {
			maxID = id
		}
	}
	if maxID >= len(labels.Labels) {
		return 0, errors.Wrapf(models.ErrInvalidInput, "label %d exceeds dense range of %d positions",
			maxID, len(labels.Labels))
	}
	seen := make([]bool, maxID+1)
	distinct := 0
	for _, id := range labels.Labels {
		if !seen[id] {
			seen[id] = true
			distinct++
		}
	}
	if maxID >= distinct {
		return 0, errors.Wrapf(models.ErrInvalidInput, "labels are not dense: max id %d with %d distinct ids",
			maxID, distinct)
	}
	return distinct, nil
}

func accumulate(dst []models.Histogram, img *models.IntensityImage, labels *models.LabelMap, startRow, endRow int) {
	for i := startRow * labels.Width; i < endRow*labels.Width; i++ {
		dst[labels.Labels[i]][img.Pix[i]]++
	}
}

// Totals returns the pixel count of every region.
func Totals(hists []models.Histogram) []int {
	totals := make([]int, len(hists))
	for r := range hists {
		totals[r] = hists[r].Total()
	}
	return totals
}
