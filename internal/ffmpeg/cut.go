package ffmpeg

import (
	"context"
	"fmt"

	"github.com/keelan/adforge/pkg/util"
)

// Cut extracts the [start, end) range into a new file. No pixel transform
// happens, so streams are copied rather than re-encoded.
func (e *Executor) Cut(ctx context.Context, input string, start, end float64, output string) error {
	duration := end - start
	if duration <= 0 {
		return fmt.Errorf("invalid cut range: end must be after start")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Float64("start", start).
		Float64("duration", duration).
		Msg("cutting segment")

	opts := RunOptions{
		Op: "cut",
		Args: []string{
			"-ss", util.FormatSeconds(start),
			"-t", util.FormatSeconds(duration),
			"-i", input,
			"-c", "copy",
			output,
		},
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("cut output")
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		return err
	}

	e.logger.Info().Str("output", output).Msg("cut complete")
	return nil
}
