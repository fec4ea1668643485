package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewElementCommand creates the parent command for element property access
func NewElementCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "element",
		Short: "Read and write element properties",
	}
	cmd.AddCommand(newElementGetCommand(), newElementSetCommand())
	return cmd
}

func newElementGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get [pipeline] [element] [property]",
		Short:   "Read an element property",
		Example: `  gstc element get p0 v0 pattern`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			value, code, err := c.ElementGet(commandContext(), args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("failed to get property: %w (status %s)", err, code)
			}
			fmt.Println(value)
			return nil
		},
	}
}

func newElementSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set [pipeline] [element] [property] [value]",
		Short:   "Write an element property",
		Example: `  gstc element set p0 v0 pattern snow`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.ElementSet(commandContext(), args[0], args[1], args[2], args[3])
			if err != nil {
				return fmt.Errorf("failed to set property: %w (status %s)", err, code)
			}
			fmt.Printf("Property set successfully: %s.%s = %s\n", args[1], args[2], args[3])
			return nil
		},
	}
}
