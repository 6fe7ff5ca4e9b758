package database

import (
	"context"
	"errors"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const maxLoggedSQL = 200

// QueryLogger records one structured line per SQL statement with its elapsed
// time. It implements gorm's logger.Interface.
type QueryLogger struct {
	zap           *zap.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewQueryLogger writes JSON records to path (rotated by size), or to stdout
// when path is empty.
func NewQueryLogger(path string, level logger.LogLevel) *QueryLogger {
	var w io.Writer = os.Stdout
	if path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
	}
	return NewQueryLoggerTo(w, level)
}

func NewQueryLoggerTo(w io.Writer, level logger.LogLevel) *QueryLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zap.DebugLevel),
	)
	return &QueryLogger{
		zap:           zap.New(core).With(zap.String("logger", "query")),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
}

func (l *QueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *QueryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.zap.Sugar().Infof(msg, args...)
	}
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.zap.Sugar().Warnf(msg, args...)
	}
}

func (l *QueryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.zap.Sugar().Errorf(msg, args...)
	}
}

func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", truncateSQL(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed_ms", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		l.zap.Error("query failed", append(fields, zap.Error(err))...)
	case elapsed > l.slowThreshold && l.level >= logger.Warn:
		l.zap.Warn("slow query", fields...)
	case l.level >= logger.Info:
		l.zap.Debug("query", fields...)
	}
}

// truncateSQL caps sql at maxLoggedSQL bytes without splitting a rune.
func truncateSQL(sql string) string {
	if len(sql) <= maxLoggedSQL {
		return sql
	}
	cut := maxLoggedSQL
	for cut > 0 && !utf8.RuneStart(sql[cut]) {
		cut--
	}
	return sql[:cut] + "..."
}

// Sync flushes buffered records.
func (l *QueryLogger) Sync() error {
	return l.zap.Sync()
}
