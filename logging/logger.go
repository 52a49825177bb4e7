// Package logging holds the process-wide structured logger.
// Every package logs through GetLogger so level and destination are set in one place.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
)

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn, error (default info)
	Format string    // "json" or "text"
	Output io.Writer // nil for stderr
}

// Init replaces the global logger. Safe to call more than once; the last call wins.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	loggerMu.Lock()
	logger = slog.New(handler)
	loggerMu.Unlock()
}

// GetLogger returns the current logger, creating an INFO stderr logger on first use.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return logger
}

// WithPage returns a logger tagged with a page id.
func WithPage(pageID int64) *slog.Logger {
	return GetLogger().With("page_id", pageID)
}

// WithFormat returns a logger tagged with a node format name.
func WithFormat(format string) *slog.Logger {
	return GetLogger().With("format", format)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
