package main

import (
	"github.com/spf13/cobra"

	"github.com/lborres/ledger/internal/config"
)

// NewRootCmd creates the root command for the ledger CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ledger",
		Short:        "Authentication service for the ledger finance tracker",
		SilenceUsage: true,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserAddCmd())
	cmd.AddCommand(NewUserDelCmd())

	return cmd
}

// loadConfig resolves and validates settings for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
