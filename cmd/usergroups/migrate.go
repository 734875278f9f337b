package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/usergroups/internal/config"
	"github.com/deppfellow/usergroups/internal/database"
	"github.com/deppfellow/usergroups/internal/logger"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		log := logger.NewLogger(cfg.Observability)

		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()

		return database.Migrate(ctx, &log, cfg)
	},
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", time.Minute, "give up on migrations after this long")
}
