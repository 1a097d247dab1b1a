package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts zap to gorm's logger interface with a slow-query
// threshold.
type GormLogger struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger builds a gorm logger backed by zap. A zero slowThreshold
// defaults to 200ms.
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, slowThreshold time.Duration) *GormLogger {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &GormLogger{log: log, level: level, slowThreshold: slowThreshold}
}

// LogMode returns a copy of the logger with the given level.
func (gl *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface.
func (gl *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if gl.level >= gormlogger.Info {
		gl.log.Sugar().Infof(msg, args...)
	}
}

// Warn implements gormlogger.Interface.
func (gl *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if gl.level >= gormlogger.Warn {
		gl.log.Sugar().Warnf(msg, args...)
	}
}

// Error implements gormlogger.Interface.
func (gl *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if gl.level >= gormlogger.Error {
		gl.log.Sugar().Errorf(msg, args...)
	}
}

// Trace logs completed statements, flagging slow queries and errors.
func (gl *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if gl.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && gl.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		gl.log.Error("sql error", append(fields, zap.Error(err))...)
	case elapsed > gl.slowThreshold && gl.level >= gormlogger.Warn:
		gl.log.Warn("slow sql", append(fields, zap.Duration("threshold", gl.slowThreshold))...)
	case gl.level >= gormlogger.Info:
		gl.log.Debug("sql", fields...)
	}
}

// MapGormLogLevel converts a textual level to gorm's log level.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn", "warning":
		return gormlogger.Warn
	default:
		return gormlogger.Info
	}
}
