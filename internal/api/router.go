package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/api/handlers"
	"github.com/hugh/go-planner/internal/api/middleware"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client // optional; readiness skips it when nil
	Logger         *slog.Logger
	Tokens         auth.TokenService
	AuthService    auth.Authenticator
	Repository     *repository.Repository
	Service        *service.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	// Anonymous traffic is limited per IP here; authenticated routes are
	// limited per user below.
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.Error("Resource not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, dto.Error("Method not allowed", nil))
	})

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Tokens, cfg.Repository, cfg.Logger)
	projectHandler := handlers.NewProjectHandler(cfg.Repository, cfg.Service, cfg.Logger)
	taskHandler := handlers.NewTaskHandler(cfg.Repository, cfg.Service, cfg.Logger)
	teamHandler := handlers.NewTeamHandler(cfg.Repository, cfg.Service, cfg.Logger)
	userHandler := handlers.NewUserHandler(cfg.Repository, cfg.Service, cfg.Logger)
	timeEntryHandler := handlers.NewTimeEntryHandler(cfg.Repository, cfg.Service, cfg.Logger)
	categoryHandler := handlers.NewCategoryHandler(cfg.Repository, cfg.Service, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))
			if cfg.RateLimitReqs > 0 {
				r.Use(middleware.RateLimitByUser(cfg.RateLimitReqs, cfg.RateLimitSecs))
			}

			r.Post("/auth/refresh", authHandler.Refresh)
			r.Get("/me", authHandler.Me)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)
				r.Get("/{id}", projectHandler.Get)
				r.Put("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Archive)
				r.Get("/{id}/stats", projectHandler.Stats)
				r.Get("/{id}/metrics", projectHandler.Metrics)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
				r.Get("/{id}/dependencies", taskHandler.ListDependencies)
				r.Post("/{id}/dependencies", taskHandler.AddDependency)
				r.Delete("/{id}/dependencies/{dependencyID}", taskHandler.RemoveDependency)
			})

			r.Route("/subtasks", func(r chi.Router) {
				r.Post("/", taskHandler.CreateSubtask)
				r.Put("/{id}", taskHandler.UpdateSubtask)
				r.Delete("/{id}", taskHandler.DeleteSubtask)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", teamHandler.List)
				r.Post("/", teamHandler.Create)
				r.Get("/{id}", teamHandler.Get)
				r.Post("/{id}/members", teamHandler.AddMember)
				r.Delete("/{id}/members/{userID}", teamHandler.RemoveMember)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
			})

			r.Route("/time-entries", func(r chi.Router) {
				r.Get("/", timeEntryHandler.List)
				r.Post("/", timeEntryHandler.Create)
				r.Put("/{id}", timeEntryHandler.Update)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Post("/", categoryHandler.Create)
			})
		})
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
