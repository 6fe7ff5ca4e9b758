package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-planner/internal/api"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/database"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
	"github.com/hugh/go-planner/internal/tasks"
	"github.com/hugh/go-planner/pkg/config"
	"github.com/hugh/go-planner/pkg/queue"
	"github.com/hugh/go-planner/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env, "api")
	slog.SetDefault(logger)

	logger.Info("starting go-planner server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	queryLog := database.NewQueryLogger(cfg.Database.QueryLogFile, queryLogLevel(cfg))
	defer queryLog.Sync()

	db, err := database.Connect(&cfg.Database, logger, queryLog)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("database schema migrated")
	}

	// Redis is optional: without it the API runs but no snapshots are queued.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis", "error", err)
		redisClient.Close()
		redisClient = nil
	}

	repo := repository.New(db)
	var opts []service.Option

	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = queue.NewClient(&cfg.Redis)
		opts = append(opts, service.WithNotifier(tasks.NewNotifier(asynqClient)))
	}
	svc := service.New(db, repo, logger, opts...)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Tokens:         jwtService,
		AuthService:    authService,
		Repository:     repo,
		Service:        svc,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}

func queryLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.Server.IsDevelopment() {
		return gormlogger.Info
	}
	return gormlogger.Warn
}
