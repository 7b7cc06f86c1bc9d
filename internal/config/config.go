package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	OutputDir string `yaml:"output_dir"`
	TempDir   string `yaml:"temp_dir"`

	// AI provider settings
	AI AIConfig `yaml:"ai"`

	// Pipeline tuning
	Pipeline PipelineConfig `yaml:"pipeline"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Keyword lists for risk detection
	Keywords KeywordConfig `yaml:"keywords"`
}

// AIConfig identifies the generation capability provider. Credentials are
// supplied here by the external configuration store; this core never
// persists them.
type AIConfig struct {
	Vendor      string  `yaml:"vendor"`
	APIBase     string  `yaml:"api_base"`
	APIKey      string  `yaml:"api_key"`
	TextModel   string  `yaml:"text_model"`
	VisionModel string  `yaml:"vision_model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// PipelineConfig externalizes the tuning knobs that would otherwise be
// embedded constants.
type PipelineConfig struct {
	FrameSamples   int     `yaml:"frame_samples"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	BlurSigma      int     `yaml:"blur_sigma"`
}

type FFmpegConfig struct {
	Threads int    `yaml:"threads"`
	Preset  string `yaml:"preset"`
	CRF     int    `yaml:"crf"`
}

// KeywordConfig holds flat positive/negative lists plus optional named
// categories that fold into them by kind.
type KeywordConfig struct {
	Positive   []string          `yaml:"positive"`
	Negative   []string          `yaml:"negative"`
	Categories []KeywordCategory `yaml:"categories"`
}

type KeywordCategory struct {
	Name  string   `yaml:"name"`
	Kind  string   `yaml:"kind"` // "positive" or "negative"
	Terms []string `yaml:"terms"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		OutputDir: "./output",
		TempDir:   os.TempDir(),
		AI: AIConfig{
			Vendor:      "openai",
			APIBase:     "",
			TextModel:   "gpt-4o-mini",
			VisionModel: "gpt-4o",
			MaxTokens:   2048,
			Temperature: 0.2,
		},
		Pipeline: PipelineConfig{
			FrameSamples:   5,
			ScoreThreshold: 8.0,
			BlurSigma:      20,
		},
		FFmpeg: FFmpegConfig{
			Threads: 0,
			Preset:  "medium",
			CRF:     23,
		},
		Keywords: KeywordConfig{},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".adforge", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
