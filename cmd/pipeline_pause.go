package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewPipelinePauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "pause [name]",
		Short:   "Transition a pipeline to PAUSED",
		Example: `  gstc pipeline pause p0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelinePause(args[0])
		},
	}
}

func runPipelinePause(name string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	code, err := c.PipelinePause(commandContext(), name)
	if err != nil {
		return fmt.Errorf("failed to pause pipeline: %w (status %s)", err, code)
	}

	fmt.Printf("Pipeline %s is now %s\n", name, color.YellowString("PAUSED"))
	return nil
}
