package convert

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/keelan/adforge/pkg/util"
)

// Spec describes one A/B variant to generate. An empty strategy defaults to
// blur_bg.
type Spec struct {
	Name     string      `yaml:"name" json:"name"`
	Ratio    AspectRatio `yaml:"ratio" json:"ratio"`
	Strategy Strategy    `yaml:"strategy" json:"strategy"`
}

// Generator fans a source video out into one output per spec for A/B
// testing.
type Generator struct {
	logger    zerolog.Logger
	converter *Converter
	outputDir string

	// pathLocks serializes writers of the same output path. Names are
	// deterministic, so concurrent runs over the same video and spec
	// would otherwise race on the file.
	pathLocks sync.Map
}

// NewGenerator creates a variant generator writing into outputDir.
func NewGenerator(logger zerolog.Logger, converter *Converter, outputDir string) *Generator {
	return &Generator{
		logger:    logger.With().Str("component", "variants").Logger(),
		converter: converter,
		outputDir: outputDir,
	}
}

// Generate converts input once per spec and returns the paths that
// succeeded. A failing spec is logged and skipped, never fatal; callers can
// infer the failure count from len(specs) minus the returned length.
func (g *Generator) Generate(ctx context.Context, input string, specs []Spec) []string {
	if err := util.EnsureDir(g.outputDir); err != nil {
		g.logger.Error().Err(err).Str("dir", g.outputDir).Msg("cannot create output dir")
		return nil
	}

	base := util.BaseName(input)
	results := make([]string, 0, len(specs))

	for _, spec := range specs {
		strategy := spec.Strategy
		if strategy == "" {
			strategy = StrategyBlurBG
		}

		output := filepath.Join(g.outputDir, base+"_"+spec.Name+".mp4")

		g.logger.Info().
			Str("variant", spec.Name).
			Str("ratio", string(spec.Ratio)).
			Str("strategy", string(strategy)).
			Msg("generating variant")

		if err := g.convertLocked(ctx, input, output, spec.Ratio, strategy); err != nil {
			g.logger.Error().Err(err).Str("variant", spec.Name).Msg("variant generation failed")
			util.CleanupFiles(output)
			continue
		}

		results = append(results, output)
	}

	g.logger.Info().
		Int("requested", len(specs)).
		Int("generated", len(results)).
		Msg("variant generation complete")

	return results
}

func (g *Generator) convertLocked(ctx context.Context, input, output string, ratio AspectRatio, strategy Strategy) error {
	muIface, _ := g.pathLocks.LoadOrStore(output, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	_, err := g.converter.Convert(ctx, input, output, ratio, strategy)
	return err
}
