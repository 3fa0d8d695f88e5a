package commands

import (
	"github.com/spf13/cobra"

	"github.com/KHILANO5/Campusfound/internal/app"
	"github.com/KHILANO5/Campusfound/internal/bench"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

var benchOpts bench.Options

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Load the configured store with posts and racing resolves",
	Long: `bench registers throwaway authors, creates posts with concurrent workers,
resolves every post from several goroutines at once and reads the feed,
then prints latency percentiles. It writes real rows: point it at a scratch database.`,
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
		rep, err := bench.Run(cmd.Context(), svcs, benchOpts)
		if err != nil {
			return err
		}
		rep.Print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	f := benchCmd.Flags()
	f.IntVar(&benchOpts.Users, "users", 10, "Authors to register")
	f.IntVar(&benchOpts.Posts, "posts", 200, "Posts to create")
	f.IntVar(&benchOpts.Workers, "workers", 8, "Concurrent callers")
	f.IntVar(&benchOpts.Racers, "racers", 2, "Concurrent resolves per post")
	f.IntVar(&benchOpts.Reads, "reads", 50, "Feed reads")
	rootCmd.AddCommand(benchCmd)
}
