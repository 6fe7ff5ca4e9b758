//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/database"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
	"github.com/hugh/go-planner/internal/tenant"
	"github.com/hugh/go-planner/pkg/config"
	"github.com/hugh/go-planner/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env, "seed")

	db, err := database.Connect(&cfg.Database, logger, nil)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, logger)

	email := envOr("ADMIN_EMAIL", "admin@example.com")
	password := envOr("ADMIN_PASSWORD", "admin1234")
	username := envOr("ADMIN_USERNAME", "admin")
	company := envOr("ADMIN_COMPANY", "Example Inc")

	ctx := context.Background()
	user, err := authService.Register(ctx, auth.RegisterInput{
		Username:    username,
		Email:       email,
		Password:    password,
		Role:        tenant.RoleAdmin.String(),
		CompanyName: company,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			fmt.Printf("Admin user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create admin user: %v", err)
	}

	actor, err := tenant.NewActor(user.ID, user.CustomerID, tenant.RoleAdmin.String())
	if err != nil {
		log.Fatalf("failed to build actor: %v", err)
	}
	ctx = tenant.WithActor(ctx, actor)

	repo := repository.New(db)
	svc := service.New(db, repo, logger)

	project, err := svc.CreateProject(ctx, service.CreateProjectInput{
		Title:     "Getting started",
		Status:    models.ProjectActive,
		StartDate: time.Now().UTC(),
		TechStack: []string{"go"},
	})
	if err != nil {
		log.Fatalf("failed to create sample project: %v", err)
	}

	if _, err := svc.CreateTask(ctx, service.CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Invite your team",
		Status:    models.StatusNotStarted,
		Priority:  models.PriorityHigh,
	}); err != nil {
		log.Fatalf("failed to create sample task: %v", err)
	}

	token, err := jwtService.GenerateToken(user.ID, user.CustomerID, tenant.RoleAdmin.String())
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Printf("Admin user created successfully!\n")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Customer: %s\n", user.CustomerID)
	fmt.Printf("Sample project: %s\n", project.ID)
	fmt.Printf("Token: %s\n", token)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
