package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type PipelineListOptions struct {
	OutputFormat string
}

func NewPipelineListCommand() *cobra.Command {
	opts := &PipelineListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipelines",
		Example: `  gstc pipeline list
  gstc pipeline list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelineList(opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputFormat, "output", "text", "Output format (json or text)")
	return cmd
}

func runPipelineList(opts *PipelineListOptions) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	infos, code, err := c.ListPipelines(commandContext())
	if err != nil {
		return fmt.Errorf("failed to list pipelines: %w (status %s)", err, code)
	}

	if opts.OutputFormat == "json" {
		return printJSON(infos)
	}

	data := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		data = append(data, map[string]interface{}{
			"name":  info.Name,
			"state": colorizeState(info.State),
		})
	}
	renderTable([]TableColumn{
		{Header: "NAME", Key: "name"},
		{Header: "STATE", Key: "state"},
	}, data)
	return nil
}
