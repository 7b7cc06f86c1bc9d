// Package convert transforms videos into the fixed ad placement formats.
// Every conversion re-encodes both streams: the filters mutate pixel data,
// and the audio track is re-encoded to AAC in sync with the new video.
package convert

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/ffmpeg"
)

// AspectRatio is one of the recognized ad placement ratios.
type AspectRatio string

const (
	RatioSquare    AspectRatio = "1:1"
	RatioVertical  AspectRatio = "4:5"
	RatioStory     AspectRatio = "9:16"
	RatioLandscape AspectRatio = "16:9"
)

// Strategy is the composition method used to reach the target ratio.
type Strategy string

const (
	// StrategyCrop scales to cover and center-crops. Peripheral content
	// is lost; no borders appear.
	StrategyCrop Strategy = "crop"
	// StrategyBlurBG composites the fit-scaled source over a blurred
	// cover-scaled copy of itself. Fills the frame, keeps all content.
	StrategyBlurBG Strategy = "blur_bg"
	// StrategyPad scales to fit on a black canvas. Keeps all content;
	// bars appear.
	StrategyPad Strategy = "pad"
)

// ConfigurationError reports an unrecognized aspect ratio or strategy. It is
// raised before any transcoder invocation and is never retried.
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Field, e.Value)
}

// pixelTargets maps each ratio to its fixed output box.
var pixelTargets = map[AspectRatio][2]int{
	RatioSquare:    {1080, 1080},
	RatioVertical:  {1080, 1350},
	RatioStory:     {1080, 1920},
	RatioLandscape: {1920, 1080},
}

// TargetBox returns the pixel dimensions for a ratio.
func TargetBox(ratio AspectRatio) (w, h int, ok bool) {
	box, ok := pixelTargets[ratio]
	return box[0], box[1], ok
}

// Runner executes a prepared transcoder invocation.
type Runner interface {
	Run(ctx context.Context, opts ffmpeg.RunOptions) error
}

// Options tunes the converter's encoding parameters.
type Options struct {
	BlurSigma int
	Preset    string
	CRF       int
}

// Converter builds filter graphs for the composition strategies and hands
// them to the transcoder.
type Converter struct {
	logger zerolog.Logger
	runner Runner
	opts   Options
}

// New creates a converter.
func New(logger zerolog.Logger, runner Runner, opts Options) *Converter {
	if opts.BlurSigma <= 0 {
		opts.BlurSigma = 20
	}
	if opts.Preset == "" {
		opts.Preset = ffmpeg.DefaultPreset
	}
	if opts.CRF == 0 {
		opts.CRF = ffmpeg.DefaultCRF
	}
	return &Converter{
		logger: logger.With().Str("component", "converter").Logger(),
		runner: runner,
		opts:   opts,
	}
}

// Convert transcodes input into the target ratio using the given strategy
// and returns the output path. Validation happens before the transcoder is
// touched; a failed transcode leaves the output path undefined and callers
// should remove it.
func (c *Converter) Convert(ctx context.Context, input, output string, ratio AspectRatio, strategy Strategy) (string, error) {
	w, h, ok := TargetBox(ratio)
	if !ok {
		return "", &ConfigurationError{Field: "aspect ratio", Value: string(ratio)}
	}

	graph, err := filterGraph(strategy, w, h, c.opts.BlurSigma)
	if err != nil {
		return "", err
	}

	c.logger.Info().
		Str("input", input).
		Str("output", output).
		Str("ratio", string(ratio)).
		Str("strategy", string(strategy)).
		Int("width", w).
		Int("height", h).
		Msg("converting format")

	args := []string{
		"-i", input,
		"-filter_complex", graph,
		"-map", "[outv]",
		"-map", "0:a?",
		"-c:v", ffmpeg.DefaultVideoCodec,
		"-crf", fmt.Sprintf("%d", c.opts.CRF),
		"-preset", c.opts.Preset,
		"-c:a", ffmpeg.DefaultAudioCodec,
		output,
	}

	runOpts := ffmpeg.RunOptions{
		Op:   fmt.Sprintf("%s conversion", strategy),
		Args: args,
		LogHandler: func(line string) {
			c.logger.Debug().Str("ffmpeg", line).Msg("conversion output")
		},
	}

	if err := c.runner.Run(ctx, runOpts); err != nil {
		return "", err
	}

	c.logger.Info().Str("output", output).Msg("conversion complete")
	return output, nil
}

// filterGraph builds the -filter_complex description for a strategy. The
// graph always ends in a single [outv] video stream of exactly w×h pixels.
func filterGraph(strategy Strategy, w, h, blurSigma int) (string, error) {
	switch strategy {
	case StrategyCrop:
		return fmt.Sprintf(
			"[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d[outv]",
			w, h, w, h,
		), nil

	case StrategyBlurBG:
		return fmt.Sprintf(
			"[0:v]split=2[bg][fg];"+
				"[bg]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,gblur=sigma=%d[bgb];"+
				"[fg]scale=%d:%d:force_original_aspect_ratio=decrease[fgs];"+
				"[bgb][fgs]overlay=(W-w)/2:(H-h)/2[outv]",
			w, h, w, h, blurSigma, w, h,
		), nil

	case StrategyPad:
		return fmt.Sprintf(
			"[0:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2[outv]",
			w, h, w, h,
		), nil

	default:
		return "", &ConfigurationError{Field: "strategy", Value: string(strategy)}
	}
}
