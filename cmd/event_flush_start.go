package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewEventFlushStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "flush-start [pipeline]",
		Short:   "Start discarding in-flight data",
		Example: `  gstc event flush-start p0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.EventFlushStart(commandContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to send flush-start: %w (status %s)", err, code)
			}
			fmt.Printf("Flush started on pipeline: %s\n", args[0])
			return nil
		},
	}
}
