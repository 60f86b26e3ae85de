package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smolder-dev/smolder/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger_DebugFlag(t *testing.T) {
	t.Setenv("SMOLDER_LOG_LEVEL", "error")

	log := NewLogger(&config.RuntimeConfig{Debug: true})
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	log = NewLogger(&config.RuntimeConfig{})
	assert.False(t, log.Enabled(context.Background(), slog.LevelWarn))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/logging/logger.go", shortPath("/home/dev/smolder/internal/logging/logger.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}
