package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/keelan/adforge/internal/outline"
	"github.com/keelan/adforge/pkg/util"
)

// ExtractFrame writes a single still image at the given timestamp.
func (e *Executor) ExtractFrame(ctx context.Context, input string, timestamp time.Duration, output string) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Dur("timestamp", timestamp).
		Msg("extracting frame")

	opts := RunOptions{
		Op: "frame extraction",
		Args: []string{
			"-ss", util.FormatDuration(timestamp),
			"-i", input,
			"-vframes", "1",
			"-q:v", "2", // high quality JPEG
			output,
		},
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("frame extraction")
		},
	}

	return e.Run(ctx, opts)
}

// ExtractKeyframes samples n frames at uniform time intervals across the
// full duration, writing them to dir. Sampling is time-based, not
// content-adaptive. Videos too short for n distinct frames yield as many
// frames as exist instead of failing. Frames are returned in timestamp
// order.
func (e *Executor) ExtractKeyframes(ctx context.Context, input string, n int, dir string) ([]outline.Frame, error) {
	if n <= 0 {
		return nil, fmt.Errorf("frame count must be positive")
	}

	info, err := e.ProbeVideo(ctx, input)
	if err != nil {
		return nil, err
	}

	timestamps := keyframeTimestamps(info.Duration, info.FPS, n)

	e.logger.Info().
		Str("input", input).
		Int("requested", n).
		Int("sampled", len(timestamps)).
		Msg("sampling keyframes")

	frames := make([]outline.Frame, 0, len(timestamps))
	base := util.BaseName(input)
	for i, ts := range timestamps {
		path := filepath.Join(dir, fmt.Sprintf("%s_frame_%02d.jpg", base, i))
		if err := e.ExtractFrame(ctx, input, ts, path); err != nil {
			util.CleanupFiles(framePaths(frames)...)
			return nil, &MediaReadError{Path: input, Err: err}
		}
		frames = append(frames, outline.Frame{Timestamp: ts, Path: path})
	}

	return frames, nil
}

// keyframeTimestamps returns up to n midpoint-of-interval timestamps. The
// count is capped at the total frame count so every sample lands on a
// distinct frame.
func keyframeTimestamps(duration time.Duration, fps float64, n int) []time.Duration {
	if duration <= 0 {
		return []time.Duration{0}
	}

	if fps > 0 {
		totalFrames := int(duration.Seconds() * fps)
		if totalFrames < 1 {
			totalFrames = 1
		}
		if n > totalFrames {
			n = totalFrames
		}
	}

	timestamps := make([]time.Duration, 0, n)
	interval := duration / time.Duration(n)
	for i := 0; i < n; i++ {
		timestamps = append(timestamps, time.Duration(i)*interval+interval/2)
	}
	return timestamps
}

func framePaths(frames []outline.Frame) []string {
	paths := make([]string, 0, len(frames))
	for _, f := range frames {
		paths = append(paths, f.Path)
	}
	return paths
}
