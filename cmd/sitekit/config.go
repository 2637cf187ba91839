package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sitekit/internal/config"
)

func configCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Resolve sitekit.json, .env and SITEKIT_* variables and print the
result as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath, ".")
			if err != nil {
				return err
			}
			data, err := cfg.JSON()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to sitekit.json")

	return cmd
}
