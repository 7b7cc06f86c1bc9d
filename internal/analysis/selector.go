package analysis

import "github.com/keelan/adforge/internal/outline"

// DefaultThreshold is the stock quality bar; runtime value comes from
// configuration.
const DefaultThreshold = 8.0

// Select keeps segments scoring strictly greater than threshold, preserving
// order.
func Select(scored []outline.ScoredSegment, threshold float64) []outline.ScoredSegment {
	selected := make([]outline.ScoredSegment, 0, len(scored))
	for _, s := range scored {
		if s.Score > threshold {
			selected = append(selected, s)
		}
	}
	return selected
}
