package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"playbridge/internal/library"
	"playbridge/internal/playlist"
)

func newPlaylistsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "playlists",
		Aliases: []string{"ls"},
		Short:   "List library playlists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(runCtx context.Context, lib *library.Library) error {
				state := lib.FetchPlaylists(runCtx)
				if state.Err != "" {
					return errors.New(state.Err)
				}
				if done, err := ctx.writeStructured(cmd, state.Data); done {
					return err
				}
				out := cmd.OutOrStdout()
				if len(state.Data) == 0 {
					fmt.Fprintln(out, "No playlists in library")
					return nil
				}
				rows := make([][]string, 0, len(state.Data))
				for _, p := range state.Data {
					rows = append(rows, []string{p.PlaylistID, p.Title, authorNames(p.Author), p.Count})
				}
				fmt.Fprint(out, renderTable([]string{"ID", "Title", "Author", "Tracks"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "show <playlist-id>",
		Short: "Show a playlist and its tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withLibrary(cmd, func(runCtx context.Context, lib *library.Library) error {
				state := lib.OpenPlaylist(runCtx, id, refresh)
				if state.Err != "" {
					return errors.New(state.Err)
				}
				if done, err := ctx.writeStructured(cmd, state.Data); done {
					return err
				}
				renderPlaylist(cmd, state.Data)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Bypass the host cache")
	return cmd
}

var titleCaser = cases.Title(language.English)

func humanize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(value), "_", " "))
}

func renderPlaylist(cmd *cobra.Command, details playlist.Details) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader(details.Title, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderField("ID", details.ID))
	if details.Author.Name != "" {
		fmt.Fprintln(out, renderField("Author", details.Author.Name))
	}
	fmt.Fprintln(out, renderField("Privacy", humanize(string(details.Privacy))))
	fmt.Fprintln(out, renderField("Tracks", strconv.Itoa(details.TrackCount)))
	if details.Duration != "" {
		fmt.Fprintln(out, renderField("Duration", details.Duration))
	}
	if details.DominantColor != nil {
		fmt.Fprintln(out, renderField("Accent", *details.DominantColor))
	}
	if details.Description != nil && strings.TrimSpace(*details.Description) != "" {
		fmt.Fprintln(out, renderField("Description", strings.TrimSpace(*details.Description)))
	}
	fmt.Fprintln(out)

	if len(details.Tracks) == 0 {
		fmt.Fprintln(out, "Playlist is empty")
		return
	}
	rows := make([][]string, 0, len(details.Tracks))
	for i, track := range details.Tracks {
		album := ""
		if track.Album != nil {
			album = track.Album.Name
		}
		title := track.Title
		if !track.IsAvailable {
			title += " (unavailable)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			title,
			artistNames(track.Artists),
			album,
			track.Duration,
			humanize(string(track.LikeStatus)),
		})
	}
	fmt.Fprint(out, renderTable([]string{"#", "Title", "Artists", "Album", "Length", "Rating"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
	fmt.Fprintln(out)
}

func authorNames(authors []playlist.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

func artistNames(artists []playlist.Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}
