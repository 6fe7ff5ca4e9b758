package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver       string // postgres, mysql or sqlite
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string // sqlite file
	AutoMigrate  bool
	QueryLogFile string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret        string
	ExpiryMinutes int
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type WorkerConfig struct {
	Concurrency  int
	SnapshotCron string
}

func (d *DatabaseConfig) DSN() string {
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name,
		)
	case "sqlite":
		return d.Path
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	}
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryMinutes) * time.Minute
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "planner")
	v.SetDefault("DATABASE_PASSWORD", "planner_secret")
	v.SetDefault("DATABASE_NAME", "planner")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_PATH", "planner.db")
	v.SetDefault("DATABASE_AUTO_MIGRATE", false)
	v.SetDefault("QUERY_LOG_FILE", "")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRY_MINUTES", 60)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("METRICS_SNAPSHOT_CRON", "0 * * * *")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Host:         v.GetString("DATABASE_HOST"),
			Port:         v.GetInt("DATABASE_PORT"),
			User:         v.GetString("DATABASE_USER"),
			Password:     v.GetString("DATABASE_PASSWORD"),
			Name:         v.GetString("DATABASE_NAME"),
			SSLMode:      v.GetString("DATABASE_SSLMODE"),
			Path:         v.GetString("DATABASE_PATH"),
			AutoMigrate:  v.GetBool("DATABASE_AUTO_MIGRATE"),
			QueryLogFile: v.GetString("QUERY_LOG_FILE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			ExpiryMinutes: v.GetInt("JWT_EXPIRY_MINUTES"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Worker: WorkerConfig{
			Concurrency:  v.GetInt("WORKER_CONCURRENCY"),
			SnapshotCron: v.GetString("METRICS_SNAPSHOT_CRON"),
		},
	}

	switch cfg.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
