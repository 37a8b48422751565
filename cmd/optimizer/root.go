package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"portfolioOptimizer/internal/config"
	"portfolioOptimizer/internal/finance"
	"portfolioOptimizer/internal/logging"
	"portfolioOptimizer/internal/optimizer"
	"portfolioOptimizer/internal/storage"
)

var version = "dev"

// debugLogging is bound to the --debug persistent flag.
var debugLogging bool

// logLevel lets --debug override the configured level.
func logLevel(configured string) string {
	if debugLogging {
		return "debug"
	}
	return configured
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimizer",
		Short: "Grid-search the maximum Sharpe ratio allocation for a basket of symbols",
		Long: `optimizer enumerates every long-only allocation of a basket on a 10% weight grid,
evaluates each one against historical daily closes and reports the allocation with the
highest Sharpe ratio, compared against a benchmark.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// early setup from env; newApp reapplies once the config file is read
		logging.Setup(logLevel(os.Getenv("LOG_LEVEL")), nil)
	}

	cmd.AddCommand(newSearchCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newHistoryCommand())

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}

// app holds what every subcommand needs. close releases the database.
type app struct {
	cfg   config.Config
	svc   *optimizer.Service
	close func() error
}

func newApp(cfg config.Config) (*app, error) {
	logging.Setup(logLevel(cfg.LogLevel), nil)

	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		return nil, err
	}
	if err := storage.InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", cfg.DBPath).Msg("db: schema ensured")

	store := storage.NewStore(db)
	provider := finance.NewYahooProvider(finance.NewYahooClient(), store, cfg.Cache.PriceTTL)
	svc := optimizer.NewService(provider, store, optimizer.Options{
		Search:    finance.SearchOptions{MaxAssets: cfg.Search.MaxAssets, Workers: cfg.Search.Workers},
		Benchmark: cfg.Search.Benchmark,
	})
	return &app{cfg: cfg, svc: svc, close: db.Close}, nil
}
