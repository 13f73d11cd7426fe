package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/asset-inventory/api"
	"github.com/frahmantamala/asset-inventory/internal/asset"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/employee"
	"github.com/frahmantamala/asset-inventory/internal/report"
	"github.com/frahmantamala/asset-inventory/internal/transport"
	"github.com/frahmantamala/asset-inventory/internal/transport/middleware"
	"github.com/frahmantamala/asset-inventory/internal/transport/rest"
	"github.com/frahmantamala/asset-inventory/internal/user"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	app, err := newApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	router, err := buildRouter(app)
	if err != nil {
		app.Logger.Error("Failed to build router", "error", err)
		return
	}

	cfg := app.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	app.Logger.Info("Starting HTTP server", "address", addr, "driver", app.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			app.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("Server failed to start", "error", err)
			return
		}
	}

	app.Logger.Info("Server stopped")
}

func buildRouter(app *application) (*chi.Mux, error) {
	doc, err := middleware.LoadOpenAPI(context.Background(), api.OpenAPIDocument)
	if err != nil {
		return nil, err
	}

	base := transport.NewBaseHandler(app.Logger)
	router := chi.NewRouter()
	err = rest.RegisterAllRoutes(router, rest.Dependencies{
		Config:          app.Config,
		Logger:          app.Logger,
		DB:              app.DB.SQL.DB,
		OpenAPI:         doc,
		AuthHandler:     auth.NewHandler(base, app.AuthService),
		UserHandler:     user.NewHandler(base, app.UserService),
		EmployeeHandler: employee.NewHandler(base, app.EmployeeService),
		AssetHandler:    asset.NewHandler(base, app.AssetService),
		ReportHandler:   report.NewHandler(base, app.ReportService),
	})
	if err != nil {
		return nil, err
	}
	return router, nil
}
