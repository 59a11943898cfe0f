// Package logging provides a thin wrapper around log/slog with a
// subsystem-prefixed API. It is initialized once at process start; all
// diagnostic output goes to stderr so command output on stdout stays clean.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init configures the process-wide logger. When debug is true the level is
// lowered to DEBUG, otherwise WARN (a CLI should be quiet by default).
func Init(debug bool, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	defaultLogger = slog.New(handler)
}

func log(level slog.Level, subsystem, format string, args ...any) {
	if defaultLogger == nil {
		Init(false, os.Stderr)
	}
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}
	defaultLogger.Log(context.Background(), level, fmt.Sprintf(format, args...),
		slog.String("subsystem", subsystem))
}

// Debug logs a formatted message at DEBUG level.
func Debug(subsystem, format string, args ...any) {
	log(slog.LevelDebug, subsystem, format, args...)
}

// Info logs a formatted message at INFO level.
func Info(subsystem, format string, args ...any) {
	log(slog.LevelInfo, subsystem, format, args...)
}

// Warn logs a formatted message at WARN level.
func Warn(subsystem, format string, args ...any) {
	log(slog.LevelWarn, subsystem, format, args...)
}

// Error logs a formatted message at ERROR level.
func Error(subsystem, format string, args ...any) {
	log(slog.LevelError, subsystem, format, args...)
}
