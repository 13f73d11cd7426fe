package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/asset-inventory/db"
	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/core/database"
	"github.com/frahmantamala/asset-inventory/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migration files under db/migrations",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "to print the applied and pending migrations")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg)

	// the versioned migrations are written for postgres; sqlite builds its
	// schema from the row types
	if cfg.Database.Driver == internal.DriverSQLite {
		if migrateRollback || migrateStatus {
			return fmt.Errorf("--rollback and --status need the %s driver", internal.DriverPostgres)
		}
		cfg.Database.AutoMigrate = true
		conn, err := database.Open(cfg.Database, logger.LoggerWrapper())
		if err != nil {
			return err
		}
		return conn.Close()
	}

	sqlDB, err := goose.OpenDBWithDriver(internal.DriverPostgres, cfg.Database.GetDSN())
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	command := "up"
	switch {
	case migrateStatus:
		command = "status"
	case migrateRollback:
		command = "down"
	}

	if err := goose.RunContext(ctx, command, sqlDB, db.MigrationsDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
