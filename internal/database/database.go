package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/pkg/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NowUTC is the clock gorm uses for created_at/updated_at.
func NowUTC() time.Time {
	return time.Now().UTC()
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.DSN()), nil
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Connect opens the configured database. SQL statements are timed through
// queryLog; pass nil to fall back to gorm's default logger.
func Connect(cfg *config.DatabaseConfig, log *slog.Logger, queryLog logger.Interface) (*gorm.DB, error) {
	if queryLog == nil {
		queryLog = logger.Default.LogMode(logger.Warn)
	}

	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:  queryLog,
		NowFunc: NowUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	// Connection pool settings
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info("connected to database", "driver", cfg.Driver, "host", cfg.Host, "database", cfg.Name)

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
