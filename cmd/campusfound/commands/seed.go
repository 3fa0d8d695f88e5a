package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KHILANO5/Campusfound/internal/app"
	"github.com/KHILANO5/Campusfound/internal/seed"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

var (
	seedPassword string
	seedForce    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo posts for local development",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, closeDB, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		svcs, err := app.NewServices(cfg, db, nil)
		if err != nil {
			return err
		}
		n, err := seed.Run(cmd.Context(), svcs.Posts, svcs.Auth, seedPassword, seedForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts (author %s)\n", n, seed.DemoEmail)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "campusfound", "Password for the demo user")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed even when posts already exist")
	rootCmd.AddCommand(seedCmd)
}
