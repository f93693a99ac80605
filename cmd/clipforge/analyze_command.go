package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/analysis"
	"clipforge/internal/media"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var includeTrending bool

	cmd := &cobra.Command{
		Use:   "analyze [media-id ...]",
		Short: "Derive descriptive tags from the selected media",
		Long: "Runs visual analysis over the selected media items (all available items\n" +
			"when no ids are given) and prints the derived tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			classifier, err := ctx.newClassifier()
			if err != nil {
				return err
			}

			items, err := source.ListAvailable(cmd.Context(), media.DefaultListLimit)
			if err != nil {
				return err
			}
			selection, err := selectItems(items, args)
			if err != nil {
				return err
			}

			analyzer := analysis.NewAnalyzer(cfg, source, classifier, logger)
			out := cmd.OutOrStdout()
			progress := newProgressPrinter(out, "Analyzing")
			tags, err := analyzer.Analyze(cmd.Context(), selection, progress.publish)
			progress.finish()
			if err != nil {
				return err
			}
			if includeTrending {
				tags = analysis.DedupeSorted(append(tags, analyzer.Trending()...))
			}

			if len(tags) == 0 {
				fmt.Fprintln(out, "No tags derived.")
				return nil
			}
			rows := make([][]string, 0, len(tags))
			for _, tag := range tags {
				rows = append(rows, []string{tag.Label, string(tag.Category)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tag", "Category"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeTrending, "trending", false, "Mix in sampled trending topics")
	return cmd
}
