package cmd

import (
	"github.com/spf13/cobra"
)

// NewPipelineCommand creates the parent command for pipeline operations
func NewPipelineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage remote pipelines",
		Long:  "Create, control, inspect and delete pipelines on the daemon",
	}

	cmd.AddCommand(
		NewPipelineCreateCommand(),
		NewPipelineDeleteCommand(),
		NewPipelinePlayCommand(),
		NewPipelinePauseCommand(),
		NewPipelineStopCommand(),
		NewPipelineInspectCommand(),
		NewPipelineListCommand(),
	)
	return cmd
}
