package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/catalog"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Inspect and manage generated videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVideosList(ctx, cmd)
		},
	}

	videosCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List generated videos, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVideosList(ctx, cmd)
		},
	})
	videosCmd.AddCommand(newVideosDeleteCommand(ctx))

	return videosCmd
}

func runVideosList(ctx *commandContext, cmd *cobra.Command) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	videos, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(videos) == 0 {
		fmt.Fprintln(out, "No generated videos.")
		return nil
	}

	rows := make([][]string, 0, len(videos))
	for _, video := range videos {
		rows = append(rows, []string{
			video.ID,
			video.Title,
			string(video.Style),
			video.Duration.Round(time.Second).String(),
			strings.Join(video.AnalysisTags, ", "),
			video.CreatedAt.Local().Format(time.DateTime),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Style", "Duration", "Tags", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func newVideosDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <video-id>",
		Short: "Delete a generated video and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			id := strings.TrimSpace(args[0])
			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}
