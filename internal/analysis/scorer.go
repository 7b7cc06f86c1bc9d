package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/ai"
	"github.com/keelan/adforge/internal/outline"
)

// DefaultScore replaces a segment's score when the generation call fails or
// returns nothing numeric.
const DefaultScore = 5.0

const scorerSystemPrompt = "You are a short-form video ad strategist. Rate virality honestly and reply with a single number."

// Scorer asks the text generation capability to rate each segment's viral
// potential independently.
type Scorer struct {
	logger   zerolog.Logger
	provider ai.Provider
}

// NewScorer creates a segment scorer.
func NewScorer(logger zerolog.Logger, provider ai.Provider) *Scorer {
	return &Scorer{
		logger:   logger.With().Str("component", "scorer").Logger(),
		provider: provider,
	}
}

// Run scores every segment, preserving input order. Each segment's failure
// is isolated: a failed call or a non-numeric reply yields DefaultScore and
// the batch continues. Results are always clamped to [0, 10].
func (s *Scorer) Run(ctx context.Context, segments []outline.Segment) []outline.ScoredSegment {
	scored := make([]outline.ScoredSegment, 0, len(segments))

	for i, segment := range segments {
		score := s.scoreOne(ctx, segment)
		scored = append(scored, outline.ScoredSegment{Segment: segment, Score: score})

		s.logger.Debug().
			Int("segment", i).
			Str("topic", segment.Topic).
			Float64("score", score).
			Msg("segment scored")
	}

	return scored
}

func (s *Scorer) scoreOne(ctx context.Context, segment outline.Segment) float64 {
	prompt := fmt.Sprintf(
		"Rate the viral potential of this video segment on a scale of 0 to 10.\nTopic: %s\nDuration: %.1f seconds (%.1f to %.1f).\nReply with a single floating-point number.",
		segment.Topic, segment.End-segment.Start, segment.Start, segment.End,
	)

	text, err := s.provider.GenerateText(ctx, prompt, scorerSystemPrompt)
	if err != nil {
		s.logger.Warn().Err(err).Str("topic", segment.Topic).Msg("scoring call failed, using default")
		return DefaultScore
	}

	score, ok := extractScore(text)
	if !ok {
		s.logger.Warn().Str("topic", segment.Topic).Str("reply", text).Msg("no score in reply, using default")
		return DefaultScore
	}

	return clampScore(score)
}
