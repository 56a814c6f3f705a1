package goose

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LevelDebug logs verbose debugging information, including every
	// decoded stream event.
	LevelDebug LogLevel = iota
	// LevelInfo logs normal operational messages.
	LevelInfo
	// LevelWarn logs warning messages, such as skipped stream frames.
	LevelWarn
	// LevelError logs error messages only.
	LevelError
	// LevelOff disables all logging.
	LevelOff
)

// Logger wraps slog for client logging. The zero value is silent, which is
// the right default for a library: nothing is written unless the caller
// opts in via WithLogger or the GOOSE_LOG_LEVEL environment variable.
type Logger struct {
	slog  *slog.Logger
	level LogLevel
}

// NewLogger creates a logger writing text records at the given level.
func NewLogger(level LogLevel, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}

	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	return &Logger{slog: slog.New(handler), level: level}
}

// NewLoggerFromEnv creates a logger configured by the GOOSE_LOG_LEVEL
// environment variable. Unset or unrecognized values disable logging.
func NewLoggerFromEnv() *Logger {
	switch strings.ToUpper(os.Getenv("GOOSE_LOG_LEVEL")) {
	case "DEBUG":
		return NewLogger(LevelDebug, os.Stderr)
	case "INFO":
		return NewLogger(LevelInfo, os.Stderr)
	case "WARN", "WARNING":
		return NewLogger(LevelWarn, os.Stderr)
	case "ERROR":
		return NewLogger(LevelError, os.Stderr)
	default:
		return &Logger{level: LevelOff}
	}
}

func (l *Logger) enabled(at LogLevel) bool {
	return l != nil && l.slog != nil && l.level <= at
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	if l.enabled(LevelDebug) {
		l.slog.Debug(msg, args...)
	}
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	if l.enabled(LevelInfo) {
		l.slog.Info(msg, args...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	if l.enabled(LevelWarn) {
		l.slog.Warn(msg, args...)
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	if l.enabled(LevelError) {
		l.slog.Error(msg, args...)
	}
}

// With returns a logger carrying the given attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.slog == nil {
		return l
	}
	return &Logger{slog: l.slog.With(args...), level: l.level}
}
