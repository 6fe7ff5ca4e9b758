package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-planner/pkg/config"
)

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
	}
}

func NewClient(cfg *config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

func NewServer(cfg *config.RedisConfig, concurrency int, logger asynq.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}

	return asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: logger,
		},
	)
}

// NewScheduler evaluates cron specs in UTC.
func NewScheduler(cfg *config.RedisConfig, logger asynq.Logger) *asynq.Scheduler {
	return asynq.NewScheduler(redisOpt(cfg), &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   logger,
	})
}
