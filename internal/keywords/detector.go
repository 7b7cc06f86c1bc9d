// Package keywords scans transcript and OCR text for configured keyword
// hits. It is a risk gate that runs beside the pipeline; its result never
// feeds the goal filter.
package keywords

import (
	"strings"

	"github.com/keelan/adforge/internal/config"
)

// MatchResult reports de-duplicated keyword hits per category. HasRisk is
// true exactly when at least one negative keyword matched.
type MatchResult struct {
	Positive []string `json:"positive_matches"`
	Negative []string `json:"negative_matches"`
	HasRisk  bool     `json:"has_risk"`
}

// Detector matches keyword lists by case-sensitive substring containment.
// Matching is deliberately not tokenized: a keyword inside a longer word
// still counts.
type Detector struct {
	positive []string
	negative []string
}

// NewDetector creates a detector over flat positive/negative lists.
func NewDetector(positive, negative []string) *Detector {
	return &Detector{positive: positive, negative: negative}
}

// FromConfig folds named categories into the flat lists by kind.
func FromConfig(cfg config.KeywordConfig) *Detector {
	positive := append([]string(nil), cfg.Positive...)
	negative := append([]string(nil), cfg.Negative...)

	for _, cat := range cfg.Categories {
		switch cat.Kind {
		case "negative":
			negative = append(negative, cat.Terms...)
		default:
			positive = append(positive, cat.Terms...)
		}
	}

	return NewDetector(positive, negative)
}

// Detect scans the transcript text, then each OCR text independently,
// merging hits into shared result sets with first-seen order preserved.
func (d *Detector) Detect(text string, ocrTexts []string) MatchResult {
	positive := newMatchSet()
	negative := newMatchSet()

	scan(text, d.positive, positive)
	scan(text, d.negative, negative)

	for _, ocr := range ocrTexts {
		scan(ocr, d.positive, positive)
		scan(ocr, d.negative, negative)
	}

	return MatchResult{
		Positive: positive.items,
		Negative: negative.items,
		HasRisk:  len(negative.items) > 0,
	}
}

func scan(text string, terms []string, into *matchSet) {
	for _, term := range terms {
		if strings.Contains(text, term) {
			into.add(term)
		}
	}
}

// matchSet is an ordered string set.
type matchSet struct {
	items []string
	seen  map[string]struct{}
}

func newMatchSet() *matchSet {
	return &matchSet{items: []string{}, seen: make(map[string]struct{})}
}

func (m *matchSet) add(s string) {
	if _, ok := m.seen[s]; ok {
		return
	}
	m.seen[s] = struct{}{}
	m.items = append(m.items, s)
}
