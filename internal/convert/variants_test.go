package convert

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateNaming(t *testing.T) {
	runner := &fakeRunner{}
	gen := NewGenerator(testLogger(), newTestConverter(runner), t.TempDir())

	outputs := gen.Generate(context.Background(), "/videos/promo_clip.mp4", []Spec{
		{Name: "square", Ratio: RatioSquare, Strategy: StrategyCrop},
		{Name: "story", Ratio: RatioStory, Strategy: StrategyBlurBG},
	})

	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}
	if got := filepath.Base(outputs[0]); got != "promo_clip_square.mp4" {
		t.Errorf("unexpected first output name: %q", got)
	}
	if got := filepath.Base(outputs[1]); got != "promo_clip_story.mp4" {
		t.Errorf("unexpected second output name: %q", got)
	}
}

func TestGenerateIsolatesSpecFailures(t *testing.T) {
	runner := &fakeRunner{}
	gen := NewGenerator(testLogger(), newTestConverter(runner), t.TempDir())

	// The middle spec has an unknown ratio and must fail alone.
	outputs := gen.Generate(context.Background(), "clip.mp4", []Spec{
		{Name: "a", Ratio: RatioSquare, Strategy: StrategyCrop},
		{Name: "broken", Ratio: "2:3", Strategy: StrategyCrop},
		{Name: "b", Ratio: RatioLandscape, Strategy: StrategyPad},
	})

	if len(outputs) != 2 {
		t.Fatalf("expected 2 successful variants, got %d: %v", len(outputs), outputs)
	}
	for _, out := range outputs {
		if strings.Contains(out, "broken") {
			t.Errorf("failed spec leaked into results: %q", out)
		}
	}
	// Only the two valid specs reach the transcoder.
	if len(runner.calls) != 2 {
		t.Errorf("expected 2 transcoder calls, got %d", len(runner.calls))
	}
}

func TestGenerateDefaultStrategy(t *testing.T) {
	runner := &fakeRunner{}
	gen := NewGenerator(testLogger(), newTestConverter(runner), t.TempDir())

	outputs := gen.Generate(context.Background(), "clip.mp4", []Spec{
		{Name: "feed", Ratio: RatioVertical},
	})

	if len(outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(outputs))
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 transcoder call, got %d", len(runner.calls))
	}

	args := strings.Join(runner.calls[0].Args, " ")
	if !strings.Contains(args, "gblur") {
		t.Errorf("empty strategy should default to blur_bg, args: %s", args)
	}
}

func TestGenerateEmptySpecs(t *testing.T) {
	runner := &fakeRunner{}
	gen := NewGenerator(testLogger(), newTestConverter(runner), t.TempDir())

	outputs := gen.Generate(context.Background(), "clip.mp4", nil)

	if len(outputs) != 0 {
		t.Errorf("expected no outputs, got %v", outputs)
	}
	if len(runner.calls) != 0 {
		t.Errorf("expected no transcoder calls, got %d", len(runner.calls))
	}
}
