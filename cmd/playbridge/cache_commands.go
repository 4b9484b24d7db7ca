package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"playbridge/internal/library"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the daemon playlist cache",
	}
	cacheCmd.AddCommand(newCacheInvalidateCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheInvalidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <playlist-id>...",
		Short: "Evict specific playlists from the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, arg := range args {
				if id := strings.TrimSpace(arg); id != "" {
					ids = append(ids, id)
				}
			}
			return ctx.withLibrary(cmd, func(runCtx context.Context, lib *library.Library) error {
				report, err := lib.Invalidate(runCtx, ids)
				if err != nil {
					return err
				}
				if done, err := ctx.writeStructured(cmd, report); done {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Invalidated: %d\n", len(report.Invalidated))
				if len(report.NotFound) > 0 {
					fmt.Fprintf(out, "Not cached: %s\n", strings.Join(report.NotFound, ", "))
				}
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(runCtx context.Context, lib *library.Library) error {
				report, err := lib.ClearCache(runCtx)
				if err != nil {
					return err
				}
				if done, err := ctx.writeStructured(cmd, report); done {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cache entries\n", report.Cleared)
				return nil
			})
		},
	}
}
