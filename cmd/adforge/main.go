package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keelan/adforge/internal/ai"
	"github.com/keelan/adforge/internal/config"
	"github.com/keelan/adforge/internal/convert"
	"github.com/keelan/adforge/internal/ffmpeg"
	"github.com/keelan/adforge/internal/keywords"
	"github.com/keelan/adforge/internal/logging"
	"github.com/keelan/adforge/internal/pipeline"
	"github.com/keelan/adforge/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adforge",
	Short: "adforge - ad-ready video curation pipeline",
	Long:  "Turns a raw downloaded video into ad-ready variants through AI content analysis, segment scoring, and aspect-ratio conversion.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(variantsCmd)
	rootCmd.AddCommand(cutCmd)
	rootCmd.AddCommand(frameCmd)
	rootCmd.AddCommand(watermarkCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(configCmd)
}

// newExecutor builds the shared ffmpeg executor from config.
func newExecutor(cfg *config.Config) (*ffmpeg.Executor, error) {
	return ffmpeg.New(log.Logger, ffmpeg.Options{
		Threads: cfg.FFmpeg.Threads,
		Preset:  cfg.FFmpeg.Preset,
		CRF:     cfg.FFmpeg.CRF,
	})
}

func newConverter(cfg *config.Config, exec *ffmpeg.Executor) *convert.Converter {
	return convert.New(log.Logger, exec, convert.Options{
		BlurSigma: cfg.Pipeline.BlurSigma,
		Preset:    cfg.FFmpeg.Preset,
		CRF:       cfg.FFmpeg.CRF,
	})
}

// parseVariantSpecs parses repeated "name,ratio,strategy" flags. Strategy
// may be omitted; it defaults downstream.
func parseVariantSpecs(raw []string) ([]convert.Spec, error) {
	specs := make([]convert.Spec, 0, len(raw))
	for _, v := range raw {
		parts := strings.Split(v, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid variant %q, expected name,ratio[,strategy]", v)
		}
		spec := convert.Spec{
			Name:  strings.TrimSpace(parts[0]),
			Ratio: convert.AspectRatio(strings.TrimSpace(parts[1])),
		}
		if len(parts) == 3 {
			spec.Strategy = convert.Strategy(strings.TrimSpace(parts[2]))
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var (
	processGoal        string
	processKeywordCtx  string
	processTranscript  string
	processOCRFiles    []string
	processVariants    []string
	processCutSegments bool
)

var processCmd = &cobra.Command{
	Use:   "process [input video]",
	Short: "Run the full curation pipeline on a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if !util.FileExists(args[0]) {
			return fmt.Errorf("input video not found: %s", args[0])
		}

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		opts := pipeline.Options{
			AdGoal:         processGoal,
			KeywordContext: processKeywordCtx,
			CutSegments:    processCutSegments,
		}

		if processTranscript != "" {
			data, err := os.ReadFile(processTranscript)
			if err != nil {
				return fmt.Errorf("reading transcript: %w", err)
			}
			opts.Transcript = string(data)
		}
		for _, path := range processOCRFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading ocr text: %w", err)
			}
			opts.OCRTexts = append(opts.OCRTexts, string(data))
		}

		opts.Specs, err = parseVariantSpecs(processVariants)
		if err != nil {
			return err
		}

		result, err := pipe.Process(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		return printJSON(result)
	},
}

var (
	convertRatio    string
	convertStrategy string
	convertOutput   string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input video]",
	Short: "Convert a video to a target aspect ratio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		conv := newConverter(cfg, exec)
		output, err := conv.Convert(cmd.Context(), args[0], convertOutput,
			convert.AspectRatio(convertRatio), convert.Strategy(convertStrategy))
		if err != nil {
			util.CleanupFiles(convertOutput)
			return err
		}

		cliLog := logging.WithComponent("cli")
		cliLog.Info().Str("output", output).Msg("conversion complete")
		return nil
	},
}

var variantSpecs []string

var variantsCmd = &cobra.Command{
	Use:   "variants [input video]",
	Short: "Generate A/B variants from a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		specs, err := parseVariantSpecs(variantSpecs)
		if err != nil {
			return err
		}
		if len(specs) == 0 {
			return fmt.Errorf("at least one --variant is required")
		}

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		gen := convert.NewGenerator(log.Logger, newConverter(cfg, exec), cfg.OutputDir)
		outputs := gen.Generate(cmd.Context(), args[0], specs)

		cliLog := logging.WithComponent("cli")
		cliLog.Info().
			Int("requested", len(specs)).
			Int("generated", len(outputs)).
			Msg("variants generated")

		return printJSON(outputs)
	},
}

var (
	cutStart  string
	cutEnd    string
	cutOutput string
)

var cutCmd = &cobra.Command{
	Use:   "cut [input video]",
	Short: "Extract a segment by stream copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		start, err := util.ParseTimestamp(cutStart)
		if err != nil {
			return err
		}
		end, err := util.ParseTimestamp(cutEnd)
		if err != nil {
			return err
		}

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		return exec.Cut(cmd.Context(), args[0], start.Seconds(), end.Seconds(), cutOutput)
	},
}

var (
	frameAt     string
	frameOutput string
)

var frameCmd = &cobra.Command{
	Use:   "frame [input video]",
	Short: "Extract a single frame as an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		at, err := util.ParseTimestamp(frameAt)
		if err != nil {
			return err
		}

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		return exec.ExtractFrame(cmd.Context(), args[0], at, frameOutput)
	},
}

var (
	wmX, wmY, wmWidth, wmHeight int
	wmOutput                    string
)

var watermarkCmd = &cobra.Command{
	Use:   "watermark [input video]",
	Short: "Blank out a watermark rectangle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		return exec.RemoveWatermark(cmd.Context(), args[0], wmOutput, wmX, wmY, wmWidth, wmHeight)
	},
}

var (
	audioRemove  bool
	audioReplace string
	audioOutput  string
)

var audioCmd = &cobra.Command{
	Use:   "audio [input video]",
	Short: "Remove, replace, or pass through the audio track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		return exec.ProcessAudio(cmd.Context(), args[0], audioOutput, ffmpeg.AudioOptions{
			Remove:      audioRemove,
			Replacement: audioReplace,
			ProgressFunc: func(p *ffmpeg.Progress) {
				log.Info().
					Int("frame", p.Frame).
					Str("time", p.Time).
					Str("speed", p.Speed).
					Msg("transcoding")
			},
		})
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Print source video metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%dx%d  %.2f fps  %v  video=%s audio=%s\n",
			info.Width, info.Height, info.FPS, info.Duration, info.VideoCodec, info.AudioCodec)
		return nil
	},
}

var (
	kwText     string
	kwOCRFiles []string
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Scan text for configured keyword risks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		var ocrTexts []string
		for _, path := range kwOCRFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading ocr text: %w", err)
			}
			ocrTexts = append(ocrTexts, string(data))
		}

		detector := keywords.FromConfig(cfg.Keywords)
		return printJSON(detector.Detect(kwText, ocrTexts))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify connectivity to the configured AI provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		provider, err := ai.FromConfig(log.Logger, cfg.AI)
		if err != nil {
			return err
		}

		// Cheap round trip to verify credentials and endpoint.
		reply, err := provider.GenerateText(cmd.Context(), "Hello", "Reply with 'Hi' only.")
		if err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}

		cliLog := logging.WithComponent("cli")
		cliLog.Info().Str("vendor", provider.Name()).Str("reply", reply).Msg("connection successful")
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processGoal, "goal", "", "advertising goal for the accept/reject filter")
	processCmd.Flags().StringVar(&processKeywordCtx, "keyword-context", "", "theme hint appended to the analysis prompt")
	processCmd.Flags().StringVar(&processTranscript, "transcript", "", "transcript text file for keyword risk detection")
	processCmd.Flags().StringArrayVar(&processOCRFiles, "ocr", nil, "OCR text file, repeatable")
	processCmd.Flags().StringArrayVar(&processVariants, "variant", nil, "variant spec \"name,ratio[,strategy]\", repeatable")
	processCmd.Flags().BoolVar(&processCutSegments, "cut-segments", false, "extract each selected segment as a clip")

	convertCmd.Flags().StringVar(&convertRatio, "ratio", "", "target aspect ratio (1:1, 4:5, 9:16, 16:9)")
	convertCmd.Flags().StringVar(&convertStrategy, "strategy", "blur_bg", "composition strategy (crop, blur_bg, pad)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file")
	_ = convertCmd.MarkFlagRequired("ratio")
	_ = convertCmd.MarkFlagRequired("output")

	variantsCmd.Flags().StringArrayVar(&variantSpecs, "variant", nil, "variant spec \"name,ratio[,strategy]\", repeatable")

	cutCmd.Flags().StringVar(&cutStart, "start", "0", "segment start (HH:MM:SS.mmm or seconds)")
	cutCmd.Flags().StringVar(&cutEnd, "end", "", "segment end (HH:MM:SS.mmm or seconds)")
	cutCmd.Flags().StringVarP(&cutOutput, "output", "o", "", "output file")
	_ = cutCmd.MarkFlagRequired("end")
	_ = cutCmd.MarkFlagRequired("output")

	frameCmd.Flags().StringVar(&frameAt, "at", "0", "timestamp to grab")
	frameCmd.Flags().StringVarP(&frameOutput, "output", "o", "", "output image file")
	_ = frameCmd.MarkFlagRequired("output")

	watermarkCmd.Flags().IntVar(&wmX, "x", 0, "left edge of the watermark")
	watermarkCmd.Flags().IntVar(&wmY, "y", 0, "top edge of the watermark")
	watermarkCmd.Flags().IntVar(&wmWidth, "width", 0, "watermark width")
	watermarkCmd.Flags().IntVar(&wmHeight, "height", 0, "watermark height")
	watermarkCmd.Flags().StringVarP(&wmOutput, "output", "o", "", "output file")
	_ = watermarkCmd.MarkFlagRequired("width")
	_ = watermarkCmd.MarkFlagRequired("height")
	_ = watermarkCmd.MarkFlagRequired("output")

	audioCmd.Flags().BoolVar(&audioRemove, "remove", false, "strip the audio track")
	audioCmd.Flags().StringVar(&audioReplace, "replace", "", "replacement audio file")
	audioCmd.Flags().StringVarP(&audioOutput, "output", "o", "", "output file")
	_ = audioCmd.MarkFlagRequired("output")

	keywordsCmd.Flags().StringVar(&kwText, "text", "", "transcript text to scan")
	keywordsCmd.Flags().StringArrayVar(&kwOCRFiles, "ocr", nil, "OCR text file, repeatable")

	configCmd.AddCommand(configTestCmd)
}
