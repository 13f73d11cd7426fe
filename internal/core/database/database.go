// Package database opens the connection pool shared by the gorm repositories
// and the sqlx read models.
package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DB struct {
	Gorm *gorm.DB
	SQL  *sqlx.DB
}

// Open connects with the configured driver. Both handles share one *sql.DB,
// so pool limits apply to gorm and sqlx alike.
func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*DB, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case internal.DriverPostgres:
		db, err = openPostgres(cfg, lg)
	case internal.DriverSQLite:
		db, err = openSQLite(cfg, lg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := datamodel.AutoMigrate(db.Gorm); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
		lg.Info("schema auto-migrated", "driver", cfg.Driver)
	}

	return db, nil
}

func openPostgres(cfg internal.DatabaseConfig, lg *slog.Logger) (*DB, error) {
	sqlDB, err := sqlx.Connect(internal.DriverPostgres, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}
	applyPool(sqlDB, cfg)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), GormConfig(lg))
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &DB{Gorm: gdb, SQL: sqlDB}, nil
}

func openSQLite(cfg internal.DatabaseConfig, lg *slog.Logger) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(cfg.GetDSN()), GormConfig(lg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	rawDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}

	sqlDB := sqlx.NewDb(rawDB, internal.DriverSQLite)
	applyPool(sqlDB, cfg)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	return &DB{Gorm: gdb, SQL: sqlDB}, nil
}

func applyPool(db *sqlx.DB, cfg internal.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// GormConfig routes gorm's own logging through slog and turns driver errors
// into gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func GormConfig(lg *slog.Logger) *gorm.Config {
	if lg == nil {
		lg = slog.Default()
	}
	return &gorm.Config{
		Logger: gormlogger.NewSlogLogger(lg, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}
}

func (d *DB) Close() error {
	return d.SQL.Close()
}
