package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/config"
)

// OpenAIProvider talks to the OpenAI chat completions API, or to any
// OpenAI-compatible endpoint when a base URL is configured.
type OpenAIProvider struct {
	logger      zerolog.Logger
	client      openai.Client
	name        string
	textModel   string
	visionModel string
	temperature float64
}

// NewOpenAIProvider creates a provider against the official OpenAI endpoint
// (or cfg.APIBase when set).
func NewOpenAIProvider(logger zerolog.Logger, cfg config.AIConfig) *OpenAIProvider {
	return newOpenAICompatible(logger, cfg, "openai")
}

// NewCustomProvider is the same client registered under the "custom" vendor
// name for self-hosted OpenAI-compatible gateways.
func NewCustomProvider(logger zerolog.Logger, cfg config.AIConfig) *OpenAIProvider {
	return newOpenAICompatible(logger, cfg, "custom")
}

func newOpenAICompatible(logger zerolog.Logger, cfg config.AIConfig, name string) *OpenAIProvider {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if strings.TrimSpace(cfg.APIBase) != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.APIBase))
	}

	return &OpenAIProvider{
		logger:      logger.With().Str("component", "ai").Str("vendor", name).Logger(),
		client:      openai.NewClient(clientOpts...),
		name:        name,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		temperature: cfg.Temperature,
	}
}

func (p *OpenAIProvider) Name() string { return p.name }

// GenerateText sends a single system+user exchange and returns the reply.
func (p *OpenAIProvider) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = "You are a helpful assistant."
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       p.textModel,
		Temperature: openai.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("text generation returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// AnalyzeImages sends all images with the prompt in one vision request.
// Images are local files, inlined as base64 data URLs.
func (p *OpenAIProvider) AnalyzeImages(ctx context.Context, images []string, prompt string) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
	}
	for _, img := range images {
		url, err := imageDataURL(img)
		if err != nil {
			return "", err
		}
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: url,
		}))
	}

	p.logger.Debug().Int("images", len(images)).Msg("sending vision request")

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
		Model:       p.visionModel,
		Temperature: openai.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("image analysis returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// imageDataURL inlines a local image file as a data URL.
func imageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", path, err)
	}

	mime := "image/jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mime = "image/png"
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
