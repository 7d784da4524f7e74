package threshold

import "sort"

// RegionValue pairs a region with its drop-out value.
type RegionValue struct {
	Value  float64
	Region int
}

// SortRegions orders regions by value, then by id, ascending. The order is
// reversed end to end when invert is set.
func SortRegions(values []float64, invert bool) []RegionValue {
	sorted := make([]RegionValue, len(values))
	for r, v := range values {
		sorted[r] = RegionValue{Value: v, Region: r}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value < sorted[j].Value
		}
		return sorted[i].Region < sorted[j].Region
	})
	if invert {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	return sorted
}
