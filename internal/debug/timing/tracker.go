// Package timing accumulates wall-clock durations per pipeline stage.
package timing

import (
	"sort"
	"sync"
	"time"
)

// Span is a started measurement.
type Span struct {
	Operation string
	StartTime time.Time
}

type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
		now:     time.Now,
	}
}

func (tt *Tracker) StartTiming(operation string) Span {
	return Span{Operation: operation, StartTime: tt.now()}
}

// EndTiming records the span and returns its duration.
func (tt *Tracker) EndTiming(span Span) time.Duration {
	duration := tt.now().Sub(span.StartTime)

	tt.mu.Lock()
	tt.timings[span.Operation] = append(tt.timings[span.Operation], duration)
	tt.mu.Unlock()

	return duration
}

func (tt *Tracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}

// Operations lists the recorded operations in name order.
func (tt *Tracker) Operations() []string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Fields reports the average duration of every operation, as log fields.
func (tt *Tracker) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	for _, op := range tt.Operations() {
		fields[op+"_avg"] = tt.GetAverageTime(op).String()
		fields[op+"_count"] = len(tt.GetTimings(op))
	}
	return fields
}
