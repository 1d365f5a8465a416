package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the application's structured logger. Nothing may be written to
// stderr while the TUI owns the terminal, so it discards until Init is
// called with a file path.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Init points Logger at logPath, creating it with mode 0600.
// If logPath is empty, logs are discarded.
func Init(logPath, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if logPath == "" {
		handler = slog.NewTextHandler(io.Discard, opts)
	} else {
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		handler = slog.NewTextHandler(file, opts)
	}

	Logger = slog.New(handler)
	return nil
}

// ParseLevel maps debug/info/warn/error to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
