package commands

import (
	"github.com/spf13/cobra"

	"github.com/KHILANO5/Campusfound/pkg/database"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cfg.Database.AutoMigrate = false
		db, closeDB, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("schema migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
