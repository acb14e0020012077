package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the process logger. With log.file set, records go to a
// rotating file at log.level; otherwise warnings and above go to stderr.
// --verbose lowers either destination to debug.
func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, io.Closer) {
	if strings.TrimSpace(cfg.Log.File) == "" {
		level := slog.LevelWarn
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), nopCloser{}
	}

	level := parseSlogLevel(cfg.Log.Level, slog.LevelInfo)
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	logWriter := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})
	return slog.New(handler), logWriter
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}
