package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/earthdata-go/harmony/cmd/cmdutil"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Earthdata Login credentials",
	}

	cmd.AddCommand(newSetTokenCmd())
	cmd.AddCommand(newAuthStatusCmd())

	return cmd
}

func newSetTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token [token]",
		Short: "Save an Earthdata Login bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdutil.LoadFileConfig()
			if err != nil {
				return err
			}
			cfg.Token = args[0]
			if err := cmdutil.SaveFileConfig(cfg); err != nil {
				return fmt.Errorf("saving token: %w", err)
			}
			path, _ := cmdutil.ConfigPath()
			cmdutil.LoggerFromContext(cmd.Context()).Info("Token saved", "path", path)
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the configured credentials work",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.NewClient(cmd)
			if err != nil {
				return err
			}
			if err := client.ValidateCredentials(cmd.Context()); err != nil {
				return fmt.Errorf("credential check failed: %w", err)
			}
			cmdutil.LoggerFromContext(cmd.Context()).Info("Credentials are valid")
			return nil
		},
	}
}
