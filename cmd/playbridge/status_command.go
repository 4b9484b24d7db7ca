package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playbridge/internal/api"
	"playbridge/internal/preflight"
)

const statusProbeTimeout = 3 * time.Second

type statusReport struct {
	Daemon    string             `json:"daemon"`
	Reachable bool               `json:"reachable"`
	Status    *api.DaemonStatus  `json:"status,omitempty"`
	Error     string             `json:"error,omitempty"`
	Checks    []preflight.Result `json:"checks,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and credential status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client := ctx.hostClient()
			report := statusReport{Daemon: client.BaseURL()}

			probeCtx, cancel := context.WithTimeout(cmd.Context(), statusProbeTimeout)
			status, err := client.Status(probeCtx)
			cancel()
			if err != nil {
				report.Error = err.Error()
				report.Checks = preflight.RunAll(cmd.Context(), cfg)
			} else {
				report.Reachable = true
				report.Status = status
				report.Checks = status.Checks
			}

			if done, err := ctx.writeStructured(cmd, report); done {
				return err
			}
			renderStatus(cmd, report)
			return nil
		},
	}
}

func renderStatus(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(out, line)
	}
	if !report.Reachable {
		fmt.Fprintln(out, renderStatusLine("Daemon", statusError, "not reachable at "+report.Daemon, colorize))
		if report.Error != "" {
			fmt.Fprintln(out, renderStatusLine("Error", statusInfo, report.Error, colorize))
		}
	} else {
		s := report.Status
		fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", s.PID), colorize))
		if s.StartedAt != "" {
			fmt.Fprintln(out, renderStatusLine("Started", statusInfo, s.StartedAt, colorize))
		}
		if s.Ready {
			fmt.Fprintln(out, renderStatusLine("Host surface", statusOK, strings.Join(s.Methods, ", "), colorize))
		} else {
			fmt.Fprintln(out, renderStatusLine("Host surface", statusWarn, "not installed yet", colorize))
		}
		if s.Authenticated {
			fmt.Fprintln(out, renderStatusLine("Credentials", statusOK, "accepted", colorize))
		} else {
			fmt.Fprintln(out, renderStatusLine("Credentials", statusWarn, "run `playbridge auth`", colorize))
		}
		fmt.Fprintln(out, renderStatusLine("Cache", statusInfo, fmt.Sprintf("%d entries in %s", s.CacheEntries, s.CachePath), colorize))
	}

	if len(report.Checks) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Checks", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, check := range report.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
		}
		fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
}
