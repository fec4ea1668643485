package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewPipelineDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [name]",
		Short:   "Delete a pipeline",
		Long:    "Destroy the pipeline handle and every resource behind it. The name becomes reusable.",
		Example: `  gstc pipeline delete p0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelineDelete(args[0])
		},
	}
}

func runPipelineDelete(name string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	code, err := c.PipelineDelete(commandContext(), name)
	if err != nil {
		return fmt.Errorf("failed to delete pipeline: %w (status %s)", err, code)
	}

	fmt.Printf("Pipeline deleted successfully: %s\n", name)
	return nil
}
