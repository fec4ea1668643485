package cmd

import (
	"github.com/spf13/cobra"
)

// NewEventCommand creates the parent command for pipeline events
func NewEventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Send control events to a pipeline",
	}
	cmd.AddCommand(
		NewEventEOSCommand(),
		NewEventSeekCommand(),
		NewEventFlushStartCommand(),
		NewEventFlushStopCommand(),
	)
	return cmd
}
