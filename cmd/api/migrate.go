package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rishangit/s-ams-sub002/internal/config"
	dbpkg "github.com/rishangit/s-ams-sub002/internal/db"
	"github.com/rishangit/s-ams-sub002/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logging.New(cfg)

		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		if err := dbpkg.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		log.WithField("driver", cfg.DBDriver).Info("migration complete")
		return nil
	},
}
