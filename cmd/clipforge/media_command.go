package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/media"
)

func newMediaCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "media",
		Short: "List available source media, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := ctx.newSource(nil)
			if err != nil {
				return err
			}
			items, err := source.ListAvailable(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No media found under %s\n", cfg.Paths.MediaDir)
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				modified := ""
				if !item.CreatedAt.IsZero() {
					modified = item.CreatedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{item.ID, string(item.Kind), modified})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Kind", "Modified"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", media.DefaultListLimit, "Maximum number of items to list")
	return cmd
}
