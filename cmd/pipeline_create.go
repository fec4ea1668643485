package cmd

import (
	"fmt"
	"strings"

	"github.com/dchest/uniuri"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type PipelineCreateOptions struct {
	Name string
}

func NewPipelineCreateCommand() *cobra.Command {
	opts := &PipelineCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create [description]",
		Short: "Create a new pipeline",
		Long:  "Create a new pipeline from a gst-launch style description. The pipeline starts in the NULL state.",
		Example: `  gstc pipeline create --name p0 "videotestsrc name=v0 ! xvimagesink"
  gstc pipeline create videotestsrc ! fakesink`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipelineCreate(strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "pipeline name (generated when omitted)")
	return cmd
}

func runPipelineCreate(description string, opts *PipelineCreateOptions) error {
	name := opts.Name
	if name == "" {
		name = "p-" + strings.ToLower(uniuri.NewLen(6))
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	code, err := c.PipelineCreate(commandContext(), name, description)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w (status %s)", err, code)
	}

	fmt.Printf("Pipeline created %s: %s\n", color.GreenString("successfully"), name)
	return nil
}
