package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quiz-retake-service/internal/config"
	"quiz-retake-service/internal/infra/bunstore"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	driver, dsn, err := sqlTarget(cfg)
	if err != nil {
		return err
	}

	db, err := bunstore.Open(driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return bunstore.Migrate(ctx, db)
}

// sqlTarget picks the bun driver and DSN for the configured store.
func sqlTarget(cfg config.Config) (string, string, error) {
	switch cfg.Store.Driver {
	case bunstore.DriverPostgres:
		if cfg.Postgres.URL == "" {
			return "", "", fmt.Errorf("postgres url not configured")
		}
		return bunstore.DriverPostgres, cfg.Postgres.URL, nil
	case bunstore.DriverSQLite:
		return bunstore.DriverSQLite, cfg.Store.SQLitePath, nil
	default:
		return "", "", fmt.Errorf("store driver %q has no schema to migrate", cfg.Store.Driver)
	}
}
