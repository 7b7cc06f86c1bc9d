package ffmpeg

import "fmt"

// MediaReadError indicates the source could not be read: the container is
// unreadable, probing failed, or the file has no video stream.
type MediaReadError struct {
	Path string
	Err  error
}

func (e *MediaReadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unreadable media %q", e.Path)
	}
	return fmt.Sprintf("unreadable media %q: %v", e.Path, e.Err)
}

func (e *MediaReadError) Unwrap() error { return e.Err }

// TranscodeError reports a failed ffmpeg invocation. Output carries the tail
// of the tool's stderr so callers see the raw diagnostics. No guarantee is
// made about the output file of a failed invocation; callers should remove it.
type TranscodeError struct {
	Op     string
	Output string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %v\n%s", e.Op, e.Err, e.Output)
}

func (e *TranscodeError) Unwrap() error { return e.Err }
