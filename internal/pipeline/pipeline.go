// Package pipeline orchestrates the curation flow for a single video:
// analyze, then either stop on a goal rejection or score, select, and
// convert. Stages run strictly sequentially; throughput comes from running
// independent pipelines concurrently, one per video.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/ai"
	"github.com/keelan/adforge/internal/analysis"
	"github.com/keelan/adforge/internal/config"
	"github.com/keelan/adforge/internal/convert"
	"github.com/keelan/adforge/internal/ffmpeg"
	"github.com/keelan/adforge/internal/keywords"
	"github.com/keelan/adforge/internal/outline"
	"github.com/keelan/adforge/pkg/util"
)

// Analyzer produces an outline with a normalized filter verdict.
type Analyzer interface {
	Run(ctx context.Context, videoPath, adGoal, keywordContext string) (*outline.Outline, error)
}

// SegmentScorer rates segments; it never fails the batch.
type SegmentScorer interface {
	Run(ctx context.Context, segments []outline.Segment) []outline.ScoredSegment
}

// VariantGenerator fans a video out into per-spec outputs.
type VariantGenerator interface {
	Generate(ctx context.Context, input string, specs []convert.Spec) []string
}

// Prober reads source metadata.
type Prober interface {
	ProbeVideo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
}

// Cutter extracts a [start, end) clip.
type Cutter interface {
	Cut(ctx context.Context, input string, start, end float64, output string) error
}

// Pipeline wires the stages for one video at a time. It holds no mutable
// state between runs beyond the output filesystem.
type Pipeline struct {
	logger    zerolog.Logger
	cfg       *config.Config
	prober    Prober
	cutter    Cutter
	analyzer  Analyzer
	scorer    SegmentScorer
	generator VariantGenerator
	detector  *keywords.Detector
}

// New builds a pipeline with real collaborators from configuration.
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	exec, err := ffmpeg.New(logger, ffmpeg.Options{
		Threads: cfg.FFmpeg.Threads,
		Preset:  cfg.FFmpeg.Preset,
		CRF:     cfg.FFmpeg.CRF,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	provider, err := ai.FromConfig(logger, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ai provider: %w", err)
	}

	analyzer := analysis.NewAnalyzer(logger, provider, exec, analysis.AnalyzerOptions{
		FrameSamples: cfg.Pipeline.FrameSamples,
		TempDir:      cfg.TempDir,
	})

	converter := convert.New(logger, exec, convert.Options{
		BlurSigma: cfg.Pipeline.BlurSigma,
		Preset:    cfg.FFmpeg.Preset,
		CRF:       cfg.FFmpeg.CRF,
	})

	return &Pipeline{
		logger:    logger.With().Str("component", "pipeline").Logger(),
		cfg:       cfg,
		prober:    exec,
		cutter:    exec,
		analyzer:  analyzer,
		scorer:    analysis.NewScorer(logger, provider),
		generator: convert.NewGenerator(logger, converter, cfg.OutputDir),
		detector:  keywords.FromConfig(cfg.Keywords),
	}, nil
}

// Process runs the full curation flow on one video. A goal-rejected video
// is not an error: the run returns a filtered result with the reason. Media
// and transcode failures propagate.
func (p *Pipeline) Process(ctx context.Context, input string, opts Options) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With().Str("run", runID).Logger()

	logger.Info().
		Str("input", input).
		Str("goal", opts.AdGoal).
		Int("specs", len(opts.Specs)).
		Msg("starting pipeline")

	info, err := p.prober.ProbeVideo(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	result := &Result{
		RunID: runID,
		Input: input,
		Asset: &outline.VideoAsset{
			Path:     input,
			Width:    info.Width,
			Height:   info.Height,
			Duration: info.Duration,
			FPS:      info.FPS,
		},
	}

	// Independent risk gate; reported but never wired into the verdict.
	if opts.Transcript != "" || len(opts.OCRTexts) > 0 {
		matches := p.detector.Detect(opts.Transcript, opts.OCRTexts)
		result.Keywords = &matches
		if matches.HasRisk {
			logger.Warn().
				Strs("negative", matches.Negative).
				Msg("negative keywords detected")
		}
	}

	content, err := p.analyzer.Run(ctx, input, opts.AdGoal, opts.KeywordContext)
	if err != nil {
		return nil, fmt.Errorf("content analysis failed: %w", err)
	}
	result.Outline = content

	if content.FilterStatus == outline.FilterRejected {
		result.Status = StatusFiltered
		result.Reason = content.Reason
		logger.Info().Str("reason", content.Reason).Msg("video filtered by goal")
		return result, nil
	}

	result.Scored = p.scorer.Run(ctx, content.Segments)
	result.Selected = analysis.Select(result.Scored, p.cfg.Pipeline.ScoreThreshold)

	logger.Info().
		Int("segments", len(result.Scored)).
		Int("selected", len(result.Selected)).
		Float64("threshold", p.cfg.Pipeline.ScoreThreshold).
		Msg("segments scored and selected")

	if opts.CutSegments && len(result.Selected) > 0 {
		clips, err := p.cutSegments(ctx, input, result.Selected)
		if err != nil {
			return nil, err
		}
		result.Clips = clips
	}

	if len(opts.Specs) > 0 {
		result.Variants = p.generator.Generate(ctx, input, opts.Specs)
	}

	result.Status = StatusCompleted

	logger.Info().
		Int("clips", len(result.Clips)).
		Int("variants", len(result.Variants)).
		Msg("pipeline complete")

	return result, nil
}

func (p *Pipeline) cutSegments(ctx context.Context, input string, selected []outline.ScoredSegment) ([]string, error) {
	if err := util.EnsureDir(p.cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("cannot create output dir: %w", err)
	}

	base := util.BaseName(input)
	clips := make([]string, 0, len(selected))
	for i, seg := range selected {
		output := filepath.Join(p.cfg.OutputDir, fmt.Sprintf("%s_seg%02d%s", base, i, filepath.Ext(input)))
		if err := p.cutter.Cut(ctx, input, seg.Start, seg.End, output); err != nil {
			return nil, fmt.Errorf("cutting segment %d: %w", i, err)
		}
		clips = append(clips, output)
	}
	return clips, nil
}
