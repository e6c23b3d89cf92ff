// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the rosterd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rosterd",
		Short: "rosterd - a user account and session service",
		Long: `rosterd is a user account service with sign-up/sign-in,
opaque session tokens and administrative user management over HTTP.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: $XDG_CONFIG_HOME/rosterd/config.yaml)")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
