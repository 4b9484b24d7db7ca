package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"playbridge/internal/daemonctl"
)

const (
	daemonStartTimeout = 10 * time.Second
	daemonStopGrace    = 5 * time.Second
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start or stop the playbridged host",
	}
	daemonCmd.AddCommand(newDaemonStartCommand(ctx))
	daemonCmd.AddCommand(newDaemonStopCommand(ctx))
	return daemonCmd
}

func newDaemonStartCommand(ctx *commandContext) *cobra.Command {
	var executable string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Launch playbridged in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if executable == "" {
				resolved, err := daemonctl.ResolveExecutable()
				if err != nil {
					return err
				}
				executable = resolved
			}
			result, err := daemonctl.EnsureStarted(cmd.Context(), ctx.hostClient(), executable, ctx.configPath, daemonStartTimeout)
			if err != nil {
				return err
			}
			if done, err := ctx.writeStructured(cmd, result); done {
				return err
			}
			switch result.State {
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon already running (pid %d)\n", result.PID)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon started (pid %d)\n", result.PID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&executable, "exec", "", "Path to the playbridged binary")
	return cmd
}

func newDaemonStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running playbridged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := daemonctl.Stop(cmd.Context(), ctx.hostClient(), daemonStopGrace)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if done, err := ctx.writeStructured(cmd, result); done {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon (pid %d) did not exit in time and was killed\n", result.PID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon (pid %d) stopped\n", result.PID)
			return nil
		},
	}
}
