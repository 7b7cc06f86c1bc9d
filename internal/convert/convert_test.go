package convert

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/ffmpeg"
)

// fakeRunner records invocations instead of spawning ffmpeg.
type fakeRunner struct {
	calls []ffmpeg.RunOptions
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, opts ffmpeg.RunOptions) error {
	f.calls = append(f.calls, opts)
	return f.err
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func newTestConverter(runner Runner) *Converter {
	return New(testLogger(), runner, Options{})
}

func TestTargetBox(t *testing.T) {
	cases := []struct {
		ratio AspectRatio
		w, h  int
	}{
		{RatioSquare, 1080, 1080},
		{RatioVertical, 1080, 1350},
		{RatioStory, 1080, 1920},
		{RatioLandscape, 1920, 1080},
	}
	for _, tc := range cases {
		w, h, ok := TargetBox(tc.ratio)
		if !ok {
			t.Errorf("ratio %q not recognized", tc.ratio)
			continue
		}
		if w != tc.w || h != tc.h {
			t.Errorf("ratio %q: got %dx%d, want %dx%d", tc.ratio, w, h, tc.w, tc.h)
		}
	}

	if _, _, ok := TargetBox("3:2"); ok {
		t.Error("3:2 should not be a recognized ratio")
	}
}

func TestConvertInvalidRatio(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestConverter(runner)

	_, err := c.Convert(context.Background(), "in.mp4", "out.mp4", "21:9", StrategyCrop)

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("invalid ratio must be rejected before any transcoder call, got %d calls", len(runner.calls))
	}
}

func TestConvertInvalidStrategy(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestConverter(runner)

	_, err := c.Convert(context.Background(), "in.mp4", "out.mp4", RatioSquare, "stretch")

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("invalid strategy must be rejected before any transcoder call, got %d calls", len(runner.calls))
	}
}

func TestConvertArgs(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestConverter(runner)

	output, err := c.Convert(context.Background(), "in.mp4", "out.mp4", RatioStory, StrategyCrop)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if output != "out.mp4" {
		t.Errorf("unexpected output path: %q", output)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected exactly one transcoder call, got %d", len(runner.calls))
	}

	args := strings.Join(runner.calls[0].Args, " ")
	for _, want := range []string{
		"-i in.mp4",
		"-map [outv]",
		"-map 0:a?",
		"-c:v libx264",
		"-c:a aac",
		"out.mp4",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("args missing %q: %s", want, args)
		}
	}
}

func TestFilterGraphCrop(t *testing.T) {
	graph, err := filterGraph(StrategyCrop, 1080, 1920, 20)
	if err != nil {
		t.Fatalf("filterGraph failed: %v", err)
	}
	want := "[0:v]scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920[outv]"
	if graph != want {
		t.Errorf("crop graph:\n got %s\nwant %s", graph, want)
	}
}

func TestFilterGraphBlurBG(t *testing.T) {
	graph, err := filterGraph(StrategyBlurBG, 1080, 1080, 25)
	if err != nil {
		t.Fatalf("filterGraph failed: %v", err)
	}

	// Cover-scaled blurred background, fit-scaled foreground, centered
	// overlay, ending in the single mapped stream.
	for _, want := range []string{
		"split=2[bg][fg]",
		"scale=1080:1080:force_original_aspect_ratio=increase,crop=1080:1080,gblur=sigma=25[bgb]",
		"scale=1080:1080:force_original_aspect_ratio=decrease[fgs]",
		"overlay=(W-w)/2:(H-h)/2[outv]",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("blur_bg graph missing %q: %s", want, graph)
		}
	}
}

func TestFilterGraphPad(t *testing.T) {
	graph, err := filterGraph(StrategyPad, 1920, 1080, 20)
	if err != nil {
		t.Fatalf("filterGraph failed: %v", err)
	}
	want := "[0:v]scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2[outv]"
	if graph != want {
		t.Errorf("pad graph:\n got %s\nwant %s", graph, want)
	}
}

func TestConvertTranscodeFailure(t *testing.T) {
	runner := &fakeRunner{err: &ffmpeg.TranscodeError{Op: "crop conversion", Err: errors.New("exit status 1")}}
	c := newTestConverter(runner)

	_, err := c.Convert(context.Background(), "in.mp4", "out.mp4", RatioSquare, StrategyCrop)

	var tErr *ffmpeg.TranscodeError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TranscodeError, got %v", err)
	}
}
