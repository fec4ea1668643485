package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type EventSeekOptions struct {
	Rate  float64
	Start time.Duration
}

func NewEventSeekCommand() *cobra.Command {
	opts := &EventSeekOptions{}

	cmd := &cobra.Command{
		Use:   "seek [pipeline]",
		Short: "Reposition the stream",
		Example: `  gstc event seek p0 --start 30s
  gstc event seek p0 --rate 2.0 --start 0s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventSeek(args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.Rate, "rate", 1.0, "playback rate")
	flags.DurationVar(&opts.Start, "start", 0, "new stream position")
	return cmd
}

func runEventSeek(name string, opts *EventSeekOptions) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	code, err := c.EventSeek(commandContext(), name, opts.Rate, opts.Start)
	if err != nil {
		return fmt.Errorf("failed to seek: %w (status %s)", err, code)
	}

	fmt.Printf("Pipeline %s repositioned to %s (rate %.2f)\n", name, opts.Start, opts.Rate)
	return nil
}
