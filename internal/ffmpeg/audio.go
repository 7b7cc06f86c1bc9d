package ffmpeg

import (
	"context"
)

// AudioOptions selects one of three audio processing modes: strip the audio
// entirely, replace it with another track, or copy everything unchanged.
type AudioOptions struct {
	Remove       bool
	Replacement  string
	ProgressFunc ProgressFunc
}

// ProcessAudio rewrites the audio of input into output.
//
// Remove produces a video-only file. Replacement swaps the audio track; the
// output duration is the shorter of the video and the replacement audio
// (-shortest). With neither set the call is a plain stream-copy pass-through.
func (e *Executor) ProcessAudio(ctx context.Context, input, output string, opts AudioOptions) error {
	var args []string

	switch {
	case opts.Remove && opts.Replacement == "":
		args = []string{
			"-i", input,
			"-c:v", "copy",
			"-an",
			output,
		}
	case opts.Replacement != "":
		args = []string{
			"-i", input,
			"-i", opts.Replacement,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-c:v", "copy",
			"-c:a", DefaultAudioCodec,
			"-shortest",
			output,
		}
	default:
		args = []string{
			"-i", input,
			"-c", "copy",
			output,
		}
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Bool("remove", opts.Remove).
		Str("replacement", opts.Replacement).
		Msg("processing audio")

	runOpts := RunOptions{
		Op:              "audio processing",
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("audio processing")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return err
	}

	e.logger.Info().Str("output", output).Msg("audio processing complete")
	return nil
}
