package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/ai"
	"github.com/keelan/adforge/internal/outline"
	"github.com/keelan/adforge/pkg/util"
)

// FrameSampler extracts evenly spaced still frames from a video.
type FrameSampler interface {
	ExtractKeyframes(ctx context.Context, input string, n int, dir string) ([]outline.Frame, error)
}

// AnalyzerOptions tunes content analysis.
type AnalyzerOptions struct {
	FrameSamples int
	TempDir      string
}

// Analyzer turns sampled frames into a structured Outline via one vision
// generation call, optionally judging the content against an ad goal.
type Analyzer struct {
	logger   zerolog.Logger
	provider ai.Provider
	sampler  FrameSampler
	opts     AnalyzerOptions
}

// NewAnalyzer creates a content analyzer.
func NewAnalyzer(logger zerolog.Logger, provider ai.Provider, sampler FrameSampler, opts AnalyzerOptions) *Analyzer {
	if opts.FrameSamples <= 0 {
		opts.FrameSamples = 5
	}
	return &Analyzer{
		logger:   logger.With().Str("component", "analyzer").Logger(),
		provider: provider,
		sampler:  sampler,
		opts:     opts,
	}
}

// Run samples frames, sends them with the analysis prompt, and normalizes
// the reply into an Outline whose FilterStatus is always set.
//
// The fallback policy is asymmetric on purpose: an unusable reply from a
// successful call is treated as accepted (the raw text becomes the summary),
// while a failed call is treated as rejected with the failure as the reason.
// An error return here means frame sampling failed; generation failures
// never propagate.
func (a *Analyzer) Run(ctx context.Context, videoPath, adGoal, keywordContext string) (*outline.Outline, error) {
	frames, err := a.sampler.ExtractKeyframes(ctx, videoPath, a.opts.FrameSamples, a.opts.TempDir)
	if err != nil {
		return nil, fmt.Errorf("frame sampling failed: %w", err)
	}
	paths := make([]string, 0, len(frames))
	for _, f := range frames {
		paths = append(paths, f.Path)
	}
	defer util.CleanupFiles(paths...)

	prompt := buildAnalysisPrompt(adGoal, keywordContext)

	a.logger.Info().
		Str("video", videoPath).
		Int("frames", len(frames)).
		Bool("goal_filter", adGoal != "").
		Msg("analyzing content")

	text, err := a.provider.AnalyzeImages(ctx, paths, prompt)
	if err != nil {
		a.logger.Warn().Err(err).Msg("generation call failed, rejecting")
		return &outline.Outline{
			Summary:      "analysis failed",
			FilterStatus: outline.FilterRejected,
			Reason:       err.Error(),
		}, nil
	}

	result := parseOutline(text)

	a.logger.Info().
		Str("status", string(result.FilterStatus)).
		Int("segments", len(result.Segments)).
		Msg("content analysis complete")

	return result, nil
}

// parseOutline extracts the JSON object from the reply and normalizes the
// filter status. Unparsable replies fall back to an accepted outline with
// the raw text as summary.
func parseOutline(text string) *outline.Outline {
	raw := extractJSONObject(text)
	if raw == "" {
		return fallbackOutline(text)
	}

	var result outline.Outline
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return fallbackOutline(text)
	}

	if result.FilterStatus == "" {
		result.FilterStatus = outline.FilterAccepted
	}
	return &result
}

func fallbackOutline(text string) *outline.Outline {
	return &outline.Outline{
		Summary:      text,
		FilterStatus: outline.FilterAccepted,
	}
}

func buildAnalysisPrompt(adGoal, keywordContext string) string {
	var b strings.Builder
	b.WriteString(`Analyze this video based on the provided frames, sampled at uniform time intervals.
1. Summarize the main topic.
2. Identify key segments with estimated start/end timestamps in seconds, inferred from visual changes between frames.
3. Reply with one JSON object with keys: "summary", "topic", "segments" (list of {"start", "end", "topic"}).`)

	if adGoal != "" {
		b.WriteString(`
4. Judge whether this content fits the advertising goal below. Add "filter_status" ("accepted" or "rejected") and "reason" to the JSON object.
Advertising goal: `)
		b.WriteString(adGoal)
	}

	if keywordContext != "" {
		b.WriteString("\nPreferred themes and keywords: ")
		b.WriteString(keywordContext)
	}

	return b.String()
}
