package ffmpeg

import (
	"context"
	"fmt"
)

// RemoveWatermark blanks out a fixed rectangle for the whole duration using
// the delogo filter. The filter mutates pixel data, so both video and audio
// are re-encoded.
func (e *Executor) RemoveWatermark(ctx context.Context, input, output string, x, y, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("watermark region must have positive dimensions")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Int("x", x).Int("y", y).Int("w", w).Int("h", h).
		Msg("removing watermark")

	opts := RunOptions{
		Op: "watermark removal",
		Args: []string{
			"-i", input,
			"-vf", fmt.Sprintf("delogo=x=%d:y=%d:w=%d:h=%d", x, y, w, h),
			"-c:v", DefaultVideoCodec,
			"-crf", fmt.Sprintf("%d", e.opts.CRF),
			"-preset", e.opts.Preset,
			"-c:a", DefaultAudioCodec,
			output,
		},
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("watermark removal")
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		return err
	}

	e.logger.Info().Str("output", output).Msg("watermark removal complete")
	return nil
}
