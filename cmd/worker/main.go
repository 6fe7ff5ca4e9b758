package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-planner/internal/database"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/tasks"
	"github.com/hugh/go-planner/pkg/config"
	"github.com/hugh/go-planner/pkg/queue"
	"github.com/hugh/go-planner/pkg/util"
	"github.com/joho/godotenv"
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

	logger := util.NewLogger(cfg.Server.Env, "worker")
	slog.SetDefault(logger)

	logger.Info("starting go-planner worker")

	if err := util.ValidateCronExpr(cfg.Worker.SnapshotCron); err != nil {
		logger.Error("invalid METRICS_SNAPSHOT_CRON", "cron", cfg.Worker.SnapshotCron, "error", err)
		os.Exit(1)
	}

	queryLog := database.NewQueryLogger(cfg.Database.QueryLogFile, gormlogger.Warn)
	defer queryLog.Sync()

	db, err := database.Connect(&cfg.Database, logger, queryLog)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	asynqLog := queue.NewSlogAdapter(logger)
	client := queue.NewClient(&cfg.Redis)
	defer client.Close()

	srv := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency, asynqLog)

	handler := tasks.NewHandler(db, repository.New(db), logger, client)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	scheduler := queue.NewScheduler(&cfg.Redis, asynqLog)
	entryID, err := scheduler.Register(cfg.Worker.SnapshotCron, tasks.NewSnapshotAllTask(), asynq.Queue(tasks.QueueLow))
	if err != nil {
		logger.Error("failed to register snapshot schedule", "error", err)
		os.Exit(1)
	}
	if next, err := util.NextCronTime(cfg.Worker.SnapshotCron, time.Now()); err == nil {
		logger.Info("snapshot schedule registered", "entry_id", entryID, "cron", cfg.Worker.SnapshotCron, "next_run", next)
	}

	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(mux); err != nil {
		logger.Error("failed to start worker", "error", err)
		scheduler.Shutdown()
		os.Exit(1)
	}

	logger.Info("worker started, waiting for tasks...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...")
	scheduler.Shutdown()
	srv.Shutdown()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
