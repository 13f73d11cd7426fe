package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/asset-inventory/api"
	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/asset"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/employee"
	"github.com/frahmantamala/asset-inventory/internal/report"
	"github.com/frahmantamala/asset-inventory/internal/transport/middleware"
	"github.com/frahmantamala/asset-inventory/internal/transport/swagger"
	"github.com/frahmantamala/asset-inventory/internal/user"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies carries everything the router mounts. A nil handler leaves its
// routes unregistered, which the tests use to mount a single module.
type Dependencies struct {
	Config          *internal.Config
	Logger          *slog.Logger
	DB              *sql.DB
	OpenAPI         *openapi3.T
	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	EmployeeHandler *employee.Handler
	AssetHandler    *asset.Handler
	ReportHandler   *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger
	healthHandler := NewHealthHandler(deps.DB, cfg.Database.Driver)

	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.Metrics(metricsPath))
	router.Use(middleware.CORS(middleware.ParseOrigins(cfg.Server.AllowedOrigins)))

	// OpenAPI document and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPIDocument)
	})
	router.Handle("/swagger/*", swagger.Handler())

	if metricsPath != "" {
		router.Handle(metricsPath, promhttp.Handler())
	}

	var validate func(http.Handler) http.Handler
	if deps.OpenAPI != nil {
		v, err := middleware.OpenAPIValidator(deps.OpenAPI)
		if err != nil {
			return err
		}
		validate = v
	}

	loginLimiter, err := middleware.LoginRateLimiter(cfg.Server.LoginRatePerMinute, cfg.Server.LoginBurst).
		WithTrustedProxies(middleware.ParseOrigins(cfg.Server.TrustedProxies))
	if err != nil {
		return err
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		if cfg.Server.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(cfg.Server.RequestTimeout))
		}
		if validate != nil {
			r.Use(validate)
		}

		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.AuthHandler == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", deps.AuthHandler.Register)
			ar.With(loginLimiter.Middleware).Post("/login", deps.AuthHandler.Login)
		})

		// Protected routes that require a live session
		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)
			pr.Use(middleware.IdentityLogger)

			pr.Post("/auth/logout", deps.AuthHandler.Logout)

			if deps.UserHandler != nil {
				pr.Get("/users/me", deps.UserHandler.GetCurrentUser)
			}

			if deps.EmployeeHandler != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/", deps.EmployeeHandler.ListEmployees)
					er.Post("/", deps.EmployeeHandler.CreateEmployee)
					er.Get("/{id}", deps.EmployeeHandler.GetEmployee)
					er.Delete("/{id}", deps.EmployeeHandler.DeleteEmployee)
				})
			}

			pr.Route("/assets", func(ar chi.Router) {
				if deps.ReportHandler != nil {
					ar.Get("/print", deps.ReportHandler.PrintAssets)
				}
				if deps.AssetHandler == nil {
					return
				}
				ar.Get("/", deps.AssetHandler.ListAssets)   // GET /assets?q=
				ar.Post("/", deps.AssetHandler.CreateAsset) // POST /assets
				ar.Get("/{id}", deps.AssetHandler.GetAsset)
				ar.Put("/{id}", deps.AssetHandler.UpdateAsset)
				ar.Delete("/{id}", deps.AssetHandler.DeleteAsset)
			})
		})
	})

	return nil
}
