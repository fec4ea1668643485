package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Persistent overrides for the daemon endpoint; empty values fall
	// back to the active profile and then the config defaults.
	flagAddress  string
	flagNetwork  string
	flagLogLevel string

	rootCmd = &cobra.Command{
		Use:   "gstc",
		Short: "GStreamer Daemon control client",
		Long: `gstc is a command-line client for a pipeline-management daemon. It creates
and controls remote multimedia pipelines by name: create, play, pause, stop,
seek, flush events, element properties and bus messages.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagAddress, "address", "", "daemon address (host:port or socket path)")
	flags.StringVar(&flagNetwork, "network", "", "daemon transport (tcp or unix)")
	flags.StringVar(&flagLogLevel, "loglevel", "", "client verbosity (QUIET, ERROR, WARN, INFO, DEBUG)")

	rootCmd.AddCommand(
		NewPipelineCommand(),
		NewElementCommand(),
		NewBusCommand(),
		NewEventCommand(),
		NewDebugCommand(),
		NewDaemonCommand(),
		NewProfileCommand(),
		NewVersionCommand(),
	)
}
