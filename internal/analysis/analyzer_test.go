package analysis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/outline"
)

// fakeProvider returns canned replies without calling anything remote.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) AnalyzeImages(ctx context.Context, images []string, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

// fakeSampler satisfies FrameSampler without touching ffmpeg.
type fakeSampler struct {
	frames []outline.Frame
	err    error
}

func (f *fakeSampler) ExtractKeyframes(ctx context.Context, input string, n int, dir string) ([]outline.Frame, error) {
	return f.frames, f.err
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestAnalyzerParsesOutline(t *testing.T) {
	provider := &fakeProvider{reply: `Here is the analysis:
{"summary": "cat does backflip", "topic": "pets", "segments": [{"start": 0, "end": 5.5, "topic": "setup"}, {"start": 5.5, "end": 12, "topic": "backflip"}], "filter_status": "accepted"}`}

	a := NewAnalyzer(testLogger(), provider, &fakeSampler{}, AnalyzerOptions{})
	result, err := a.Run(context.Background(), "cat.mp4", "pet products", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.FilterStatus != outline.FilterAccepted {
		t.Errorf("expected accepted, got %q", result.FilterStatus)
	}
	if result.Summary != "cat does backflip" {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if result.Segments[1].Start != 5.5 || result.Segments[1].End != 12 {
		t.Errorf("unexpected second segment: %+v", result.Segments[1])
	}
}

func TestAnalyzerRejectedVerdict(t *testing.T) {
	provider := &fakeProvider{reply: `{"summary": "gambling stream", "filter_status": "rejected", "reason": "conflicts with the advertising goal"}`}

	a := NewAnalyzer(testLogger(), provider, &fakeSampler{}, AnalyzerOptions{})
	result, err := a.Run(context.Background(), "in.mp4", "family-friendly snacks", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.FilterStatus != outline.FilterRejected {
		t.Errorf("expected rejected, got %q", result.FilterStatus)
	}
	if result.Reason == "" {
		t.Error("rejection should carry a reason")
	}
}

func TestAnalyzerUnparsableReplyAccepted(t *testing.T) {
	// A successful call with no JSON in it must not reject the video.
	provider := &fakeProvider{reply: "The video shows a cooking tutorial with no clear structure."}

	a := NewAnalyzer(testLogger(), provider, &fakeSampler{}, AnalyzerOptions{})
	result, err := a.Run(context.Background(), "in.mp4", "kitchen gadgets", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.FilterStatus != outline.FilterAccepted {
		t.Errorf("unparsable reply should fall back to accepted, got %q", result.FilterStatus)
	}
	if result.Summary != provider.reply {
		t.Errorf("fallback should keep the raw text as summary, got %q", result.Summary)
	}
}

func TestAnalyzerMalformedJSONAccepted(t *testing.T) {
	provider := &fakeProvider{reply: `{"summary": "truncated`}

	a := NewAnalyzer(testLogger(), provider, &fakeSampler{}, AnalyzerOptions{})
	result, err := a.Run(context.Background(), "in.mp4", "", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.FilterStatus != outline.FilterAccepted {
		t.Errorf("malformed JSON should fall back to accepted, got %q", result.FilterStatus)
	}
}

func TestAnalyzerMissingStatusDefaultsAccepted(t *testing.T) {
	provider := &fakeProvider{reply: `{"summary": "skate trick", "segments": [{"start": 0, "end": 3, "topic": "trick"}]}`}

	a := NewAnalyzer(testLogger(), provider, &fakeSampler{}, AnalyzerOptions{})
	result, err := a.Run(context.Background(), "in.mp4", "", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.FilterStatus != outline.FilterAccepted {
		t.Errorf("missing filter_status should default to accepted, got %q", result.FilterStatus)
	}
}

func TestAnalyzerCallFailureRejects(t *testing.T) {
	provider := &fakeProvider{err: errors.New("api quota exceeded")}

	a := NewAnalyzer(testLogger(), provider, &fakeSampler{}, AnalyzerOptions{})
	result, err := a.Run(context.Background(), "in.mp4", "anything", "")
	if err != nil {
		t.Fatalf("generation failure must not propagate as error: %v", err)
	}

	if result.FilterStatus != outline.FilterRejected {
		t.Errorf("failed call should reject, got %q", result.FilterStatus)
	}
	if result.Reason != "api quota exceeded" {
		t.Errorf("reason should carry the failure: %q", result.Reason)
	}
}

func TestAnalyzerSamplingFailurePropagates(t *testing.T) {
	sampler := &fakeSampler{err: errors.New("no video stream found")}
	provider := &fakeProvider{reply: "{}"}

	a := NewAnalyzer(testLogger(), provider, sampler, AnalyzerOptions{})
	_, err := a.Run(context.Background(), "broken.mp4", "", "")
	if err == nil {
		t.Fatal("sampling failure should return an error")
	}
	if provider.calls != 0 {
		t.Errorf("no generation call should happen after sampling failure, got %d", provider.calls)
	}
}

func TestBuildAnalysisPromptGoalClause(t *testing.T) {
	plain := buildAnalysisPrompt("", "")
	if strings.Contains(plain, "filter_status") {
		t.Error("verdict clause should be absent without an ad goal")
	}

	withGoal := buildAnalysisPrompt("sell sneakers", "streetwear")
	if !strings.Contains(withGoal, "sell sneakers") || !strings.Contains(withGoal, "filter_status") {
		t.Error("verdict clause missing from goal prompt")
	}
	if !strings.Contains(withGoal, "streetwear") {
		t.Error("keyword context missing from prompt")
	}
}
