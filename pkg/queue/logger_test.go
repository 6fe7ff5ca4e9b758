package queue

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

var _ asynq.Logger = (*SlogAdapter)(nil)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewSlogAdapter(logger)

	a.Info("scheduler ", "started")
	a.Warn("retrying")

	out := buf.String()
	assert.Contains(t, out, "component=asynq")
	assert.Contains(t, out, "scheduler started")
	assert.Contains(t, out, "level=WARN")
}
