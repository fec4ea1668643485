package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type PipelineInspectOptions struct {
	OutputFormat string
}

func NewPipelineInspectCommand() *cobra.Command {
	opts := &PipelineInspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [name]",
		Short: "Show a pipeline's state and description",
		Example: `  gstc pipeline inspect p0
  gstc pipeline inspect p0 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelineInspect(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputFormat, "output", "text", "Output format (json or text)")
	return cmd
}

func runPipelineInspect(name string, opts *PipelineInspectOptions) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	info, code, err := c.PipelineGetState(commandContext(), name)
	if err != nil {
		return fmt.Errorf("failed to inspect pipeline: %w (status %s)", err, code)
	}

	if opts.OutputFormat == "json" {
		return printJSON(info)
	}

	fmt.Printf("Name:        %s\n", info.Name)
	fmt.Printf("ID:          %s\n", info.ID)
	fmt.Printf("State:       %s\n", colorizeState(info.State))
	fmt.Printf("Description: %s\n", info.Description)
	return nil
}
