// Package logger provides structured logging with configurable log levels.
// It returns a standard *slog.Logger: JSON records in production and
// charmbracelet/log formatted records everywhere else.
package logger
