// Package outline holds the per-run domain types produced and consumed by the
// curation pipeline. All values are ephemeral: nothing in this package is
// persisted, only the converted output files survive a run.
package outline

import "time"

// FilterStatus is the verdict of goal-based content filtering.
type FilterStatus string

const (
	FilterAccepted FilterStatus = "accepted"
	FilterRejected FilterStatus = "rejected"
)

// VideoAsset describes the source video as reported by probing.
type VideoAsset struct {
	Path     string
	Width    int
	Height   int
	Duration time.Duration
	FPS      float64
}

// Frame is a sampled still image, consumed only by content analysis.
type Frame struct {
	Timestamp time.Duration
	Path      string
}

// Segment is a time-bounded slice of the video with a topic label.
// Start and End are seconds from the beginning of the video. Values come
// from the AI response, so start < end is assumed but not enforced.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Topic string  `json:"topic"`
}

// Outline is the structured result of one content analysis run.
type Outline struct {
	Summary      string       `json:"summary"`
	Topic        string       `json:"topic"`
	Segments     []Segment    `json:"segments"`
	FilterStatus FilterStatus `json:"filter_status"`
	Reason       string       `json:"reason"`
}

// ScoredSegment pairs a segment with its virality score in [0, 10].
type ScoredSegment struct {
	Segment
	Score float64 `json:"score"`
}
