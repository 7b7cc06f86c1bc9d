// Package ai abstracts the external generation capability behind two
// operations: text generation and image analysis. Concrete providers share
// the same contract and are selected by configuration, so the pipeline never
// branches on vendor names.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/internal/config"
)

// Provider is the generation capability consumed by content analysis and
// segment scoring. Any provider-side failure (auth, rate limit, network,
// malformed response) surfaces as an ordinary error; callers decide the
// fallback policy.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error)
	AnalyzeImages(ctx context.Context, images []string, prompt string) (string, error)
}

// Registry is a read-only provider table indexed by lowercase name.
type Registry struct {
	byName map[string]Provider
}

// NewRegistry builds a registry from the given providers. Names must be
// non-empty and unique.
func NewRegistry(providers ...Provider) (Registry, error) {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		if p == nil {
			return Registry{}, fmt.Errorf("nil provider")
		}
		name := strings.ToLower(strings.TrimSpace(p.Name()))
		if name == "" {
			return Registry{}, fmt.Errorf("provider has empty name")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("duplicate provider: %q", name)
		}
		byName[name] = p
	}
	return Registry{byName: byName}, nil
}

// Get looks up a provider by name.
func (r Registry) Get(name string) (Provider, bool) {
	if r.byName == nil {
		return nil, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	p, ok := r.byName[name]
	return p, ok
}

// FromConfig constructs the provider named by cfg.Vendor. The "custom"
// vendor is an OpenAI-compatible endpoint reached through the configured
// base URL.
func FromConfig(logger zerolog.Logger, cfg config.AIConfig) (Provider, error) {
	registry, err := NewRegistry(
		NewOpenAIProvider(logger, cfg),
		NewCustomProvider(logger, cfg),
		NewAnthropicProvider(logger, cfg),
	)
	if err != nil {
		return nil, err
	}

	p, ok := registry.Get(cfg.Vendor)
	if !ok {
		return nil, fmt.Errorf("unknown ai vendor: %q", cfg.Vendor)
	}
	return p, nil
}
