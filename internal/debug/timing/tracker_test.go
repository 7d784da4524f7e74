package timing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestTracker(t *testing.T) {
	tt := NewTracker()
	tt.now = fakeClock(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if d := tt.EndTiming(tt.StartTiming("load")); d != 10*time.Millisecond {
			t.Fatalf("duration = %v, want 10ms", d)
		}
	}
	tt.EndTiming(tt.StartTiming("process"))

	if got := tt.GetAverageTime("load"); got != 10*time.Millisecond {
		t.Errorf("average = %v, want 10ms", got)
	}
	if diff := cmp.Diff([]string{"load", "process"}, tt.Operations()); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
	want := map[string]interface{}{
		"load_avg":      "10ms",
		"load_count":    3,
		"process_avg":   "10ms",
		"process_count": 1,
	}
	if diff := cmp.Diff(want, tt.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	if tt.GetTimings("save") != nil || tt.GetAverageTime("save") != 0 {
		t.Error("unrecorded operation reports timings")
	}
}
