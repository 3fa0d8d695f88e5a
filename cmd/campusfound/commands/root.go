package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/KHILANO5/Campusfound/config"
	"github.com/KHILANO5/Campusfound/pkg/database"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

var (
	// Global flags
	configPath string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "campusfound",
	Short: "CampusFound - campus lost-and-found posting board backend",
	Long: `CampusFound serves the lost-and-found REST API used by the campus web front end.

Commands:
  serve    run the HTTP API
  migrate  create or update the users and posts tables
  seed     load demo posts for local development
  bench    measure create/resolve/feed latency against the configured store`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./config.yaml or ./config/config.yaml)")
}

// bootstrap loads config and initialises logging. Every subcommand starts here.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}
