package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.in, slog.LevelInfo))
		})
	}
}

func TestNewLogger_Stderr(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()

	logger, closer := newLogger(cfg, &buf)
	defer func() { _ = closer.Close() }()

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "key=value")

	cfg.Verbose = true
	verbose, _ := newLogger(cfg, &buf)
	assert.True(t, verbose.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_File(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "notransitive.log")
	cfg.Log.Level = "debug"

	logger, closer := newLogger(cfg, &buf)
	logger.Debug("scan detail", "files", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan detail")
	assert.Contains(t, string(data), "files=3")
	assert.Contains(t, string(data), "source=")
	assert.Empty(t, buf.String())
}
