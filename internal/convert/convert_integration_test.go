package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/ffmpeg"
)

// local helper (cannot use unexported ones from ffmpeg package)
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

// synthesizeClip generates a short 640x480 test pattern video.
func synthesizeClip(t *testing.T, path string) {
	t.Helper()
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "testsrc=duration=1:size=640x480:rate=30",
		"-pix_fmt", "yuv420p", "-y", path)
	if err := cmd.Run(); err != nil {
		t.Skipf("could not generate test video: %v", err)
	}
}

func TestIntegration_ConvertOutputDimensions(t *testing.T) {
	skipIfNoFFmpeg(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp4")
	synthesizeClip(t, src)

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})

	tool, err := ffmpeg.New(logger, ffmpeg.Options{Preset: "ultrafast"})
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	conv := New(logger, tool, Options{Preset: "ultrafast"})

	ctx := context.Background()

	cases := []struct {
		ratio    AspectRatio
		strategy Strategy
	}{
		// Every strategy must land on the exact target box even though
		// the 640x480 source matches none of the ratios.
		{RatioStory, StrategyCrop},
		{RatioStory, StrategyBlurBG},
		{RatioStory, StrategyPad},
		{RatioSquare, StrategyCrop},
		{RatioLandscape, StrategyPad},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("%s_%s", tc.strategy, tc.ratio), func(t *testing.T) {
			output := filepath.Join(dir, fmt.Sprintf("out_%d.mp4", i))

			if _, err := conv.Convert(ctx, src, output, tc.ratio, tc.strategy); err != nil {
				t.Fatalf("Convert failed: %v", err)
			}

			info, err := tool.ProbeVideo(ctx, output)
			if err != nil {
				t.Fatalf("ProbeVideo failed: %v", err)
			}

			wantW, wantH, _ := TargetBox(tc.ratio)
			if info.Width != wantW || info.Height != wantH {
				t.Errorf("output is %dx%d, want exactly %dx%d",
					info.Width, info.Height, wantW, wantH)
			}
		})
	}
}
