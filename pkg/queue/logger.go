package queue

import (
	"fmt"
	"log/slog"
	"os"
)

// SlogAdapter routes asynq's internal logging through slog.
type SlogAdapter struct {
	logger *slog.Logger
}

func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger.With("component", "asynq")}
}

func (a *SlogAdapter) Debug(args ...interface{}) { a.logger.Debug(fmt.Sprint(args...)) }
func (a *SlogAdapter) Info(args ...interface{})  { a.logger.Info(fmt.Sprint(args...)) }
func (a *SlogAdapter) Warn(args ...interface{})  { a.logger.Warn(fmt.Sprint(args...)) }
func (a *SlogAdapter) Error(args ...interface{}) { a.logger.Error(fmt.Sprint(args...)) }

// Fatal matches asynq.Logger, which expects the process to exit.
func (a *SlogAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
