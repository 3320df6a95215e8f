// Package logger provides the structured file logger using log/slog.
//
// The terminal belongs to the interactive screens, so log output goes
// to a rotating file only. The logger is initialized once at process
// start, handed down explicitly, and closed on exit; there is no hidden
// global state.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with the file handle it owns.
type Logger struct {
	*slog.Logger
	path   string
	writer *lumberjack.Logger
}

// DefaultPath returns the log file location, ~/.potui/potui.log.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "potui.log"
	}
	return filepath.Join(home, ".potui", "potui.log")
}

// Init opens the rotating log file and builds the logger. The caller
// must Close it on exit to flush and release the file.
func Init(path, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: lvl})
	return &Logger{
		Logger: slog.New(handler),
		path:   path,
		writer: writer,
	}, nil
}

// Path returns the log file path, shown to the user on fatal errors.
func (l *Logger) Path() string {
	return l.path
}

// Close releases the log file handle.
func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
