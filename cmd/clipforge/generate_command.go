package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/analysis"
	"clipforge/internal/catalog"
	"clipforge/internal/generate"
	"clipforge/internal/media"
	"clipforge/internal/render"
	"clipforge/internal/timeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		styleFlag    string
		platformFlag string
		skipAnalysis bool
	)

	cmd := &cobra.Command{
		Use:   "generate [media-id ...]",
		Short: "Generate a video from the selected media",
		Long: "Analyzes the selected media (all available items when no ids are given),\n" +
			"composes them into a single timeline, exports it with ffmpeg, and records\n" +
			"the result in the catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			style, ok := catalog.ParseStyle(styleFlag)
			if !ok {
				return fmt.Errorf("unknown style %q (choose from: %s)", styleFlag, styleNames())
			}
			platform, ok := catalog.ParsePlatform(platformFlag)
			if !ok {
				return fmt.Errorf("unknown platform %q", platformFlag)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			tools, err := ctx.newTools()
			if err != nil {
				return err
			}
			source, err := ctx.newSource(tools)
			if err != nil {
				return err
			}

			available, err := source.ListAvailable(cmd.Context(), media.DefaultListLimit)
			if err != nil {
				return err
			}
			selection, err := selectItems(available, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var tags []analysis.Tag
			if !skipAnalysis {
				classifier, err := ctx.newClassifier()
				if err != nil {
					return err
				}
				analyzer := analysis.NewAnalyzer(cfg, source, classifier, logger)
				progress := newProgressPrinter(out, "Analyzing")
				tags, err = analyzer.Analyze(cmd.Context(), selection, progress.publish)
				progress.finish()
				if err != nil {
					return err
				}
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			builder := timeline.NewBuilder(cfg, source, logger)
			exporter := render.NewFFmpegExporter(cfg, tools, logger)
			generator := generate.NewGenerator(cfg, store, builder, exporter, logger)

			progress := newProgressPrinter(out, "Generating")
			video, err := generator.Generate(cmd.Context(), generate.Request{
				Items:    selection,
				Tags:     tags,
				Style:    style,
				Platform: platform,
			}, progress.publish)
			progress.finish()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Generated %q (%s, %s)\n", video.Title, video.Duration.Round(time.Second), video.Style)
			fmt.Fprintf(out, "Output: %s\n", video.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&styleFlag, "style", string(catalog.StyleTrending), "Title style ("+styleNames()+")")
	cmd.Flags().StringVar(&platformFlag, "platform", string(catalog.PlatformAny), "Target platform")
	cmd.Flags().BoolVar(&skipAnalysis, "skip-analysis", false, "Generate without deriving tags first")
	return cmd
}

func styleNames() string {
	names := make([]string, 0, len(catalog.Styles()))
	for _, style := range catalog.Styles() {
		names = append(names, string(style))
	}
	return strings.Join(names, ", ")
}
