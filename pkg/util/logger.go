package util

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Development gets readable text at
// debug level; every other environment gets JSON at info level. Each record
// carries the component name so API and worker output can share a sink.
func NewLogger(env, component string) *slog.Logger {
	return newLogger(os.Stdout, env, component)
}

func newLogger(w io.Writer, env, component string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		opts.AddSource = env == "production"
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("component", component, "env", env)
}
