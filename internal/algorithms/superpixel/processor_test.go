package superpixel

import (
	"errors"
	"testing"

	"superpixel-otsu/internal/models"
)

func quadrantFrame(invert bool) *models.Frame {
	img := models.NewIntensityImage(8, 8)
	labels := models.NewLabelMap(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(20)
			if x >= 4 {
				v = 220
			}
			img.Set(x, y, v)
			labels.Set(x, y, (y/4)*2+x/4)
		}
	}
	return &models.Frame{Path: "quadrants", Index: img, Labels: labels, Invert: invert}
}

func TestProcessModels(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
		want   int
	}{
		{name: "average", params: map[string]interface{}{}, want: 20},
		{name: "median", params: map[string]interface{}{ParamModel: "med"}, want: 20},
		{name: "reduced", params: map[string]interface{}{ParamVariant: VariantReduced}, want: 20},
		{name: "percentage", params: map[string]interface{}{ParamModel: "perc", ParamK: 0.7}, want: 21},
	}
	p := NewProcessor(nil)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			frame := quadrantFrame(false)
			res, err := p.Process(frame, test.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Raw.Threshold != test.want || res.Threshold != test.want {
				t.Errorf("threshold raw=%d mask=%d, want %d", res.Raw.Threshold, res.Threshold, test.want)
			}
			if res.Accepted != 2 || res.Mask.Count() != 32 {
				t.Errorf("accepted %d regions / %d pixels, want 2 / 32", res.Accepted, res.Mask.Count())
			}
			for i, fg := range res.Mask.Pix {
				if fg != (frame.Index.Pix[i] == 220) {
					t.Fatalf("pixel %d misclassified", i)
				}
			}
		})
	}
}

func TestProcessReportsPlateau(t *testing.T) {
	res, err := NewProcessor(nil).Process(quadrantFrame(false), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Plateau != [2]int{20, 219} {
		t.Errorf("plateau = %v, want [20 219]", res.Plateau)
	}
	if mid := float64(res.Plateau[0]+res.Plateau[1]) / 2; mid < 119 || mid > 121 {
		t.Errorf("plateau midpoint = %v, want about 120", mid)
	}
}

func TestProcessSweep(t *testing.T) {
	p := NewProcessor(nil)
	res, err := p.Process(quadrantFrame(true), map[string]interface{}{
		ParamModel: ModelSweep, ParamKStart: 0.0, ParamKEnd: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.K != 1 || res.Raw.Threshold != 219 {
		t.Errorf("k=%v threshold=%d, want 1 and 219", res.K, res.Raw.Threshold)
	}
	if res.Mask.Count() != 32 {
		t.Errorf("foreground = %d pixels, want 32", res.Mask.Count())
	}
}

func TestRemaskReusesDropOut(t *testing.T) {
	p := NewProcessor(nil)
	frame := quadrantFrame(false)
	res, err := p.Process(frame, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := append([]float64(nil), res.DropOut...)

	if err := p.Remask(frame, res, 220); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Threshold != 220 || res.Raw.Threshold != 20 {
		t.Errorf("threshold=%d raw=%d, want 220 and 20", res.Threshold, res.Raw.Threshold)
	}
	if res.Mask.Count() != 0 {
		t.Errorf("regions at the threshold must be rejected, got %d pixels", res.Mask.Count())
	}
	for i := range before {
		if before[i] != res.DropOut[i] {
			t.Fatal("drop-out values changed on remask")
		}
	}
}

func TestValidateParameters(t *testing.T) {
	p := NewProcessor(nil)
	bad := []map[string]interface{}{
		{ParamModel: "mode"},
		{ParamVariant: "approx"},
		{ParamK: 1.5},
		{ParamKStart: 0.9, ParamKEnd: 0.1},
		{ParamModel: ModelSweep, ParamVariant: VariantReduced},
	}
	for _, params := range bad {
		if err := p.ValidateParameters(params); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("params %v: got %v, want ErrInvalidInput", params, err)
		}
	}
	if err := p.ValidateParameters(p.GetDefaultParameters()); err != nil {
		t.Errorf("defaults rejected: %v", err)
	}
}

func TestProcessRejectsMismatchedGrids(t *testing.T) {
	frame := quadrantFrame(false)
	frame.Labels = models.NewLabelMap(4, 4)
	if _, err := NewProcessor(nil).Process(frame, nil); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}
