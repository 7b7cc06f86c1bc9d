package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/config"
)

// AnthropicProvider fulfils the generation contract through the Anthropic
// API. Frames are pushed through the Files API and referenced in a single
// prompt, so one analysis run still makes exactly one generation call.
type AnthropicProvider struct {
	logger      zerolog.Logger
	apiKey      string
	textModel   string
	visionModel string
	maxTokens   int
	temperature float64
}

func NewAnthropicProvider(logger zerolog.Logger, cfg config.AIConfig) *AnthropicProvider {
	return &AnthropicProvider{
		logger:      logger.With().Str("component", "ai").Str("vendor", "anthropic").Logger(),
		apiKey:      cfg.APIKey,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// GenerateText sends a single system+user exchange and returns the reply.
func (p *AnthropicProvider) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       p.textModel,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	response, err := anthropic.PromptWithSettings(systemPrompt, prompt, "", p.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	if len(response.Content) == 0 {
		return "", errors.New("text generation returned no content")
	}

	return response.Content[0].Text, nil
}

// AnalyzeImages uploads each frame and sends one prompt referencing all of
// them.
func (p *AnthropicProvider) AnalyzeImages(ctx context.Context, images []string, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	files := make([]types.File, 0, len(images))
	for _, img := range images {
		file, err := anthropic.UploadFile(img, p.apiKey)
		if err != nil {
			return "", fmt.Errorf("uploading frame %s: %w", img, err)
		}
		files = append(files, types.File{ID: file.ID})
	}

	p.logger.Debug().Int("images", len(files)).Msg("sending vision request")

	settings := types.RequestSettings{
		Model:       p.visionModel,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	response, err := anthropic.PromptWithSettings("", prompt, "", p.apiKey, settings, files...)
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}
	if len(response.Content) == 0 {
		return "", errors.New("image analysis returned no content")
	}

	return response.Content[0].Text, nil
}
