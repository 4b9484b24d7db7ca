package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"playbridge/internal/library"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Store request headers copied from a signed-in browser session",
		Long: "Reads raw request headers (one \"name: value\" per line) from --file or stdin\n" +
			"and hands them to the daemon, which validates and stores them.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readHeaders(cmd, file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(raw) == "" {
				return fmt.Errorf("no headers supplied")
			}
			return ctx.withLibrary(cmd, func(runCtx context.Context, lib *library.Library) error {
				if err := lib.SaveCredentials(runCtx, raw); err != nil {
					return err
				}
				result := map[string]any{"saved": true}
				if state := lib.Playlists(); state.Loaded {
					result["playlists"] = len(state.Data)
				}
				if done, err := ctx.writeStructured(cmd, result); done {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved")
				if n, ok := result["playlists"]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Library has %d playlists\n", n)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read headers from this file instead of stdin")
	return cmd
}

func readHeaders(cmd *cobra.Command, file string) (string, error) {
	if path := strings.TrimSpace(file); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read headers: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read headers from stdin: %w", err)
	}
	return string(data), nil
}
