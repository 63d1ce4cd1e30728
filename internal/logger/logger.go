// Package logger provides logging utilities for the storefront services.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging functionality.
type Logger struct {
	internal *zap.SugaredLogger
	level    zap.AtomicLevel
}

// NewLogger creates a new console logger instance with the specified level.
func NewLogger(level string) *Logger {
	return New(level, "console")
}

// New creates a logger with the given level and encoding ("console" or "json").
// Unknown levels fall back to info.
func New(level, format string) *Logger {
	lvl := zap.NewAtomicLevelAt(ParseLevel(level))

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if strings.EqualFold(format, "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	internal, err := cfg.Build()
	if err != nil {
		internal = zap.NewNop()
	}

	return &Logger{
		internal: internal.Sugar(),
		level:    lvl,
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{
		internal: zap.NewNop().Sugar(),
		level:    zap.NewAtomicLevelAt(zapcore.FatalLevel),
	}
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Info logs an info level message.
func (l *Logger) Info(msg string, args ...any) {
	l.internal.Infow(msg, args...)
}

// Error logs an error level message.
func (l *Logger) Error(msg string, args ...any) {
	l.internal.Errorw(msg, args...)
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debugw(msg, args...)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warnw(msg, args...)
}

// With creates a child logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		internal: l.internal.With(args...),
		level:    l.level,
	}
}

// SetLevel changes the level of this logger and every child created from it.
func (l *Logger) SetLevel(level string) {
	l.level.SetLevel(ParseLevel(level))
}

// Enabled reports whether the level would be logged.
func (l *Logger) Enabled(level string) bool {
	return l.level.Enabled(ParseLevel(level))
}

// Desugar exposes the underlying zap logger for libraries that want one.
func (l *Logger) Desugar() *zap.Logger {
	return l.internal.Desugar()
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.internal.Sync()
}
