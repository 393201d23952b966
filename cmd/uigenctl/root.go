package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "uigenctl",
		Short: "Operator tooling for the UI Genie API",
		Long: `uigenctl inspects the environment the API boots from, applies database
migrations and signs development tokens.`,
		SilenceUsage: true,
	}
	root.AddCommand(newCheckEnvCmd(), newMigrateCmd(), newTokenCmd())
	return root
}
