package pipeline

import (
	"github.com/keelan/adforge/internal/convert"
	"github.com/keelan/adforge/internal/keywords"
	"github.com/keelan/adforge/internal/outline"
)

// Status is the terminal state of one pipeline run.
type Status string

const (
	// StatusCompleted means the video passed the goal filter and outputs
	// were produced.
	StatusCompleted Status = "completed"
	// StatusFiltered means the goal filter rejected the video; the run
	// stopped before scoring.
	StatusFiltered Status = "filtered"
)

// Options configures one run.
type Options struct {
	// AdGoal, when set, turns on the accept/reject verdict during
	// analysis.
	AdGoal string
	// KeywordContext is appended to the analysis prompt as a theme hint.
	KeywordContext string
	// Transcript and OCRTexts feed the keyword risk gate. Both are
	// supplied externally; this core produces neither.
	Transcript string
	OCRTexts   []string
	// Specs are the A/B variants to generate from the source video.
	Specs []convert.Spec
	// CutSegments additionally extracts each selected segment as its own
	// clip file.
	CutSegments bool
}

// Result is the typed outcome of a run. Every stage output is carried so
// callers can inspect intermediate values.
type Result struct {
	RunID    string                  `json:"run_id"`
	Input    string                  `json:"input"`
	Status   Status                  `json:"status"`
	Reason   string                  `json:"reason,omitempty"`
	Asset    *outline.VideoAsset     `json:"asset,omitempty"`
	Outline  *outline.Outline        `json:"outline,omitempty"`
	Scored   []outline.ScoredSegment `json:"scored,omitempty"`
	Selected []outline.ScoredSegment `json:"selected,omitempty"`
	Keywords *keywords.MatchResult   `json:"keywords,omitempty"`
	Clips    []string                `json:"clips,omitempty"`
	Variants []string                `json:"variants,omitempty"`
}
