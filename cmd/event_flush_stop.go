package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type EventFlushStopOptions struct {
	NoReset bool
}

func NewEventFlushStopCommand() *cobra.Command {
	opts := &EventFlushStopOptions{}

	cmd := &cobra.Command{
		Use:   "flush-stop [pipeline]",
		Short: "Stop flushing and discard buffered data",
		Long:  "End a flush: buffered in-flight data is discarded and the stream position is reset unless --no-reset is given. The play/pause state is not changed.",
		Example: `  gstc event flush-stop p0
  gstc event flush-stop p0 --no-reset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventFlushStop(args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoReset, "no-reset", false, "keep the current stream position")
	return cmd
}

func runEventFlushStop(name string, opts *EventFlushStopOptions) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	code, err := c.EventFlushStop(commandContext(), name, !opts.NoReset)
	if err != nil {
		return fmt.Errorf("failed to send flush-stop: %w (status %s)", err, code)
	}

	fmt.Printf("Flush stopped on pipeline: %s\n", name)
	return nil
}
