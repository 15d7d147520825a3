package rest

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	internal "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/asset"
	"github.com/frahmantamala/asset-management/internal/auth"
	"github.com/frahmantamala/asset-management/internal/employee"
	"github.com/frahmantamala/asset-management/internal/transport/middleware"
	"github.com/frahmantamala/asset-management/internal/transport/swagger"
	"github.com/frahmantamala/asset-management/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, authHandler *auth.Handler, userHandler *user.Handler, employeeHandler *employee.Handler, assetHandler *asset.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	generalLimiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralMax, cfg.RateLimit.GeneralWindow)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow)

	// Apply global middleware
	router.Use(middleware.CORS(splitOrigins(cfg.Server.AllowedOrigins)))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.GeneralRateLimit(generalLimiter, "/api/v1/health", "/api/v1/ping"))
	router.Use(middleware.RequireJSON)

	router.NotFound(writeErrorHandler(http.StatusNotFound, "not found"))
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(internal.ErrMethodNotAllowed)
	})

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Group(func(lr chi.Router) {
				lr.Use(middleware.LoginRateLimit(loginLimiter, cfg.Security.DisableLoginLimiter, logger))
				lr.Post("/login", authHandler.Login)
			})
			sr.Post("/logout", authHandler.Logout)
		})

		// Protected routes that require a valid session
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/auth/me", authHandler.Me)

			adminOnly := authHandler.RequireRole(user.RoleAdmin)

			// Employee routes
			pr.Route("/employees", func(er chi.Router) {
				er.Post("/", employeeHandler.CreateEmployee)
				er.Get("/", employeeHandler.GetAllEmployees)
				er.Get("/{id}", employeeHandler.GetEmployee)
				er.Put("/{id}", employeeHandler.UpdateEmployee)
				er.With(adminOnly).Delete("/{id}", employeeHandler.DeleteEmployee)
			})

			// Asset routes
			pr.Route("/pcs", func(ar chi.Router) {
				ar.Post("/", assetHandler.CreatePc)
				ar.Get("/", assetHandler.ListPcs)
				ar.Get("/export", assetHandler.ExportPcs)
				ar.Get("/notifications", assetHandler.GetNotifications)
				ar.Get("/history", assetHandler.SearchHistory)
				ar.Get("/{id}", assetHandler.GetPc)
				ar.Put("/{id}", assetHandler.UpdatePc)
				ar.With(adminOnly).Delete("/{id}", assetHandler.DeletePc)
				ar.Post("/{id}/assign", assetHandler.AssignPc)
				ar.Post("/{id}/unassign", assetHandler.UnassignPc)
				ar.Patch("/{id}/status", assetHandler.SetStatus)
				ar.Get("/{id}/history", assetHandler.GetHistory)
			})

			// User administration requires the admin role
			pr.Group(func(ur chi.Router) {
				ur.Use(adminOnly)
				ur.Route("/users", func(uur chi.Router) {
					uur.Post("/", userHandler.CreateUser)
					uur.Get("/", userHandler.GetAllUsers)
					uur.Get("/{id}", userHandler.GetUser)
					uur.Put("/{id}", userHandler.UpdateUser)
					uur.Delete("/{id}", userHandler.DeleteUser)
				})
			})
		})
	})
}

func writeErrorHandler(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
	}
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
