package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewPipelineStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "stop [name]",
		Short:   "Stop a pipeline",
		Long:    "Transition a pipeline to NULL. The handle survives; use delete to destroy it. Stopping an already stopped pipeline succeeds.",
		Example: `  gstc pipeline stop p0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelineStop(args[0])
		},
	}
}

func runPipelineStop(name string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	code, err := c.PipelineStop(commandContext(), name)
	if err != nil {
		return fmt.Errorf("failed to stop pipeline: %w (status %s)", err, code)
	}

	fmt.Printf("Pipeline stopped successfully: %s\n", name)
	return nil
}
