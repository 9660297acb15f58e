// Package logging sets up the application logger. The TUI owns the
// terminal, so logs go to a file in the data dir.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger writes structured logs to a file.
type Logger struct {
	file *os.File
	*slog.Logger
}

// Open creates (or appends to) the log file and returns a logger around it.
func Open(filePath string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{file: file, Logger: slog.New(handler)}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything; used by tests and as a
// fallback when the log file cannot be opened.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(discardWriter{}, nil))}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
