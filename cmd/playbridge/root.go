package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var daemonFlag string
	var jsonFlag bool
	var yamlFlag bool

	ctx := newCommandContext(&configFlag, &daemonFlag, &jsonFlag, &yamlFlag)

	rootCmd := &cobra.Command{
		Use:           "playbridge",
		Short:         "Browse your playlist library through the playbridge daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&daemonFlag, "daemon", "", "Daemon base URL (defaults to http://<paths.api_bind>)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&yamlFlag, "yaml", false, "Print results as YAML")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(newPlaylistsCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newAuthCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newMethodsCommand(ctx))
	rootCmd.AddCommand(newDaemonCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
