package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/catalog"
	"clipforge/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the environment and summarize the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isInteractive(out)

			failures := 0
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Catalog", statusError, err.Error(), colorize))
				failures++
			} else {
				defer store.Close()
				count, countErr := store.Count(cmd.Context())
				if countErr != nil {
					fmt.Fprintln(out, renderStatusLine("Catalog", statusError, countErr.Error(), colorize))
					failures++
				} else {
					fmt.Fprintln(out, renderStatusLine("Catalog", statusOK, fmt.Sprintf("%d generated video(s)", count), colorize))
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			return nil
		},
	}
}
