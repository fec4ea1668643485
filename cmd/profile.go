package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/emi-kkobayashi/gstd-1.x/internal/profile"
)

// NewProfileCommand creates the parent command for endpoint profiles
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage daemon endpoint profiles",
		Long:  "Profiles name daemon endpoints so one client install can drive several daemons.",
	}
	cmd.AddCommand(
		newProfileAddCommand(),
		newProfileUseCommand(),
		newProfileListCommand(),
		newProfileDeleteCommand(),
	)
	return cmd
}

func loadProfiles() (*profile.Manager, error) {
	pm := profile.NewManager()
	if err := pm.Load(); err != nil {
		return nil, err
	}
	return pm, nil
}

func newProfileAddCommand() *cobra.Command {
	var network, loglevel string

	cmd := &cobra.Command{
		Use:   "add [name] [address]",
		Short: "Add or replace a profile",
		Example: `  gstc profile add local 127.0.0.1:5000
  gstc profile add board 10.0.0.7:5000 --loglevel DEBUG
  gstc profile add sock /run/gstd.sock --network unix`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := loadProfiles()
			if err != nil {
				return err
			}
			p := profile.Profile{Address: args[1], Network: network, LogLevel: loglevel}
			if err := pm.Add(args[0], p); err != nil {
				return err
			}
			if err := pm.Save(); err != nil {
				return err
			}
			fmt.Printf("Profile added: %s -> %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&network, "network", "tcp", "daemon transport (tcp or unix)")
	cmd.Flags().StringVar(&loglevel, "loglevel", "", "client verbosity for this profile")
	return cmd
}

func newProfileUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "use [name]",
		Short:   "Select the active profile",
		Example: `  gstc profile use board`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := loadProfiles()
			if err != nil {
				return err
			}
			if err := pm.Use(args[0]); err != nil {
				return err
			}
			if err := pm.Save(); err != nil {
				return err
			}
			fmt.Printf("Active profile: %s\n", args[0])
			return nil
		},
	}
}

func newProfileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := loadProfiles()
			if err != nil {
				return err
			}
			names := pm.List()
			if len(names) == 0 {
				fmt.Println("No profiles configured")
				return nil
			}
			data := make([]map[string]interface{}, 0, len(names))
			for _, name := range names {
				p, _ := pm.Get(name)
				display := name
				if name == pm.CurrentName() {
					display = color.GreenString(name + " *")
				}
				data = append(data, map[string]interface{}{
					"name":    display,
					"address": p.Address,
					"network": p.Network,
				})
			}
			renderTable([]TableColumn{
				{Header: "NAME", Key: "name"},
				{Header: "ADDRESS", Key: "address"},
				{Header: "NETWORK", Key: "network"},
			}, data)
			return nil
		},
	}
}

func newProfileDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [name]",
		Short:   "Delete a profile",
		Example: `  gstc profile delete board`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := loadProfiles()
			if err != nil {
				return err
			}
			if err := pm.Delete(args[0]); err != nil {
				return err
			}
			if err := pm.Save(); err != nil {
				return err
			}
			fmt.Printf("Profile deleted: %s\n", args[0])
			return nil
		},
	}
}
