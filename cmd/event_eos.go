package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewEventEOSCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "eos [pipeline]",
		Short:   "Post an end-of-stream event",
		Example: `  gstc event eos p0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.EventEOS(commandContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to send eos: %w (status %s)", err, code)
			}
			fmt.Printf("EOS sent to pipeline: %s\n", args[0])
			return nil
		},
	}
}
