package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewDebugCommand creates the parent command for daemon debug settings
func NewDebugCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Configure daemon debug logging",
	}
	cmd.AddCommand(
		newDebugEnableCommand(),
		newDebugThresholdCommand(),
		newDebugColorCommand(),
		newDebugResetCommand(),
	)
	return cmd
}

func parseBoolArg(arg string) (bool, error) {
	v, err := strconv.ParseBool(arg)
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", arg)
	}
	return v, nil
}

func newDebugEnableCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "enable [true|false]",
		Short:   "Toggle daemon debug logging",
		Example: `  gstc debug enable true`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseBoolArg(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.DebugEnable(commandContext(), v)
			if err != nil {
				return fmt.Errorf("failed to toggle debug: %w (status %s)", err, code)
			}
			fmt.Printf("Debug logging: %v\n", v)
			return nil
		},
	}
}

func newDebugThresholdCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "threshold [threshold]",
		Short:   "Set the daemon debug threshold",
		Example: `  gstc debug threshold "*:2"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.DebugThreshold(commandContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to set threshold: %w (status %s)", err, code)
			}
			fmt.Printf("Debug threshold: %s\n", args[0])
			return nil
		},
	}
}

func newDebugColorCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "color [true|false]",
		Short:   "Toggle color in the daemon debug output",
		Example: `  gstc debug color false`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseBoolArg(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.DebugColor(commandContext(), v)
			if err != nil {
				return fmt.Errorf("failed to toggle color: %w (status %s)", err, code)
			}
			fmt.Printf("Debug color: %v\n", v)
			return nil
		},
	}
}

func newDebugResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "reset [true|false]",
		Short:   "Toggle resetting the threshold before applying a new one",
		Example: `  gstc debug reset true`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseBoolArg(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			code, err := c.DebugReset(commandContext(), v)
			if err != nil {
				return fmt.Errorf("failed to toggle reset: %w (status %s)", err, code)
			}
			fmt.Printf("Debug reset: %v\n", v)
			return nil
		},
	}
}
