package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/GlebRadaev/marketplace/internal/config"
	"github.com/GlebRadaev/marketplace/internal/pg"
	"github.com/GlebRadaev/marketplace/pkg/logger"
)

var errNoDatabase = errors.New("database DSN required (--database or DATABASE_URI)")

var (
	cfg      *config.Config
	database string
	logLvl   string
)

func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Marketplace database administration",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.FromEnv()
			if err != nil {
				return fmt.Errorf("can't read config: %w", err)
			}
			if database != "" {
				cfg.Database = database
			}
			if logLvl != "" {
				cfg.LogLvl = logLvl
			}
			return logger.InitLogger(cfg.LogLvl, cfg.LogFormat)
		},
	}

	root.PersistentFlags().StringVarP(&database, "database", "d", "", "database DSN (default $DATABASE_URI)")
	root.PersistentFlags().StringVarP(&logLvl, "log-lvl", "l", "", "log level (default $LOG_LVL)")

	root.AddCommand(migrateCmd(), seedCmd())
	return root
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if !cfg.UsesPostgres() {
		return nil, errNoDatabase
	}
	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}
	return pool, nil
}
