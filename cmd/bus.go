package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewBusCommand creates the parent command for bus message access
func NewBusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bus",
		Short: "Read and configure the pipeline bus",
	}
	cmd.AddCommand(newBusReadCommand(), newBusFilterCommand(), newBusTimeoutCommand())
	return cmd
}

func newBusReadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "read [pipeline]",
		Short:   "Pop the next bus message",
		Long:    "Pop the next bus message matching the configured filter. Returns nothing when the daemon-side read timeout expires first.",
		Example: `  gstc bus read p0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			msg, code, err := c.BusRead(commandContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to read bus: %w (status %s)", err, code)
			}
			if msg == nil {
				fmt.Println("No message")
				return nil
			}
			if output == "json" {
				return printJSON(msg)
			}
			fmt.Printf("%s [%s] #%d %s\n", msg.Source, msg.Type, msg.Seqnum, msg.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "text", "Output format (json or text)")
	return cmd
}

func newBusFilterCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "filter [pipeline] [types]",
		Short:   "Restrict bus reads to the given comma separated message types",
		Example: `  gstc bus filter p0 eos,error`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.BusFilter(commandContext(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to set bus filter: %w (status %s)", err, code)
			}
			fmt.Printf("Bus filter set: %s\n", args[1])
			return nil
		},
	}
}

func newBusTimeoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "timeout [pipeline] [duration]",
		Short:   "Set how long a bus read waits for a message",
		Long:    "Set how long a bus read waits for a message. Zero makes reads non-blocking; a negative duration waits forever.",
		Example: `  gstc bus timeout p0 500ms`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[1], err)
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.BusTimeout(commandContext(), args[0], d)
			if err != nil {
				return fmt.Errorf("failed to set bus timeout: %w (status %s)", err, code)
			}
			fmt.Printf("Bus timeout set: %s\n", d)
			return nil
		},
	}
}
