package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emi-kkobayashi/gstd-1.x/internal/version"
)

func NewVersionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show client version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.ClientInfo()
			if output == "json" {
				return printJSON(info)
			}
			fmt.Printf("gstc version %s, build %s\n", info["Version"], info["GitCommit"])
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "text", "Output format (json or text)")
	return cmd
}
