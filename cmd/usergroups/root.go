package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "usergroups",
	Short: "HTTP service for users, groups and group memberships",
	Long: `usergroups serves CRUD over users, groups and memberships backed by
PostgreSQL. Configuration is read from USERGROUPS_* environment variables
and an optional .env file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
