package cmd

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/asset"
	assetPostgres "github.com/frahmantamala/asset-inventory/internal/asset/postgres"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	authPostgres "github.com/frahmantamala/asset-inventory/internal/auth/postgres"
	"github.com/frahmantamala/asset-inventory/internal/core/database"
	"github.com/frahmantamala/asset-inventory/internal/core/events"
	"github.com/frahmantamala/asset-inventory/internal/employee"
	employeePostgres "github.com/frahmantamala/asset-inventory/internal/employee/postgres"
	"github.com/frahmantamala/asset-inventory/internal/report"
	reportPostgres "github.com/frahmantamala/asset-inventory/internal/report/postgres"
	"github.com/frahmantamala/asset-inventory/internal/user"
	"github.com/frahmantamala/asset-inventory/pkg/logger"
)

// application holds the repositories and services shared by every command.
type application struct {
	Config *internal.Config
	Logger *slog.Logger
	DB     *database.DB

	Users     auth.UserRepository
	Employees employee.RepositoryAPI
	Assets    asset.RepositoryAPI

	AuthService     *auth.Service
	UserService     *user.Service
	EmployeeService *employee.Service
	AssetService    *asset.Service
	ReportService   *report.Service
}

func newApplication() (*application, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper()

	db, err := database.Open(cfg.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	users := authPostgres.NewUserRepository(db.Gorm)
	sessions := authPostgres.NewSessionRepository(db.Gorm)
	employees := employeePostgres.NewEmployeeRepository(db.Gorm)
	assets := assetPostgres.NewAssetRepository(db.Gorm)
	reports := reportPostgres.NewReportRepository(db.SQL)

	bus := events.NewEventBus(lg)
	events.RegisterInventorySubscribers(bus, lg)

	authService := auth.NewService(users, sessions, auth.NewJWTTokenGenerator(cfg.Security.JWTSecret), auth.Options{
		BCryptCost:      cfg.Security.BCryptCost,
		SessionDuration: cfg.Security.SessionDuration,
	}, lg)

	return &application{
		Config:          cfg,
		Logger:          lg,
		DB:              db,
		Users:           users,
		Employees:       employees,
		Assets:          assets,
		AuthService:     authService,
		UserService:     user.NewService(users, lg),
		EmployeeService: employee.NewService(employees, lg).WithPublisher(bus),
		AssetService:    asset.NewService(assets, lg).WithPublisher(bus),
		ReportService:   report.NewService(reports, lg),
	}, nil
}

func (a *application) Close() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", "error", err)
	}
}
