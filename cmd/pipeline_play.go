package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewPipelinePlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "play [name]",
		Short:   "Transition a pipeline to PLAYING",
		Example: `  gstc pipeline play p0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelinePlay(args[0])
		},
	}
}

func runPipelinePlay(name string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	code, err := c.PipelinePlay(commandContext(), name)
	if err != nil {
		return fmt.Errorf("failed to play pipeline: %w (status %s)", err, code)
	}

	fmt.Printf("Pipeline %s is now %s\n", name, color.GreenString("PLAYING"))
	return nil
}
