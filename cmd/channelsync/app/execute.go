package app

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the channelsync CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "channelsync",
		Short:   "Channel-manager sync for property rentals",
		Version: a.version,
		Long: `Channelsync imports guests, properties, and reservations from the
Stays.net channel manager into the local rental store. Records are
dedup-matched against existing rows, reservation foreign keys are resolved
through the entities imported earlier in the run, and calendar occupancy
blocks are derived from every imported reservation.`,
		PersistentPreRunE: a.applyGlobalFlags,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.channelsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error")

	rootCmd.SetVersionTemplate("channelsync {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// applyGlobalFlags re-applies logger settings after cobra parsed the
// persistent flags, so flags beat env and config file.
func (a *App) applyGlobalFlags(_ *cobra.Command, _ []string) error {
	a.setupLogger()
	return nil
}

// registerCommands attaches all subcommands to the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		a.newSyncCommand(),
		a.newMigrateCommand(),
		a.newVersionCommand(),
	)
}
