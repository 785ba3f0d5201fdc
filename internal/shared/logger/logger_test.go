package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ns-ai-search/console/internal/shared/config"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		minLevel   slog.Level
		wantSource bool
	}{
		{"info hides source in production", slog.LevelInfo, slog.LevelWarn, false},
		{"warn shows source in production", slog.LevelWarn, slog.LevelWarn, true},
		{"error shows source in production", slog.LevelError, slog.LevelWarn, true},
		{"info shows source in debug", slog.LevelInfo, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewSourceHandler(base, tt.minLevel))

			log.Log(context.Background(), tt.level, "connect callback")

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewSourceHandler(base, slog.LevelError)).
		With("domain", "example.com").
		WithGroup("page")

	log.Info("bound", "id", "123")

	out := buf.String()
	assert.Contains(t, out, "domain=example.com")
	assert.Contains(t, out, "page.id=123")
	assert.NotContains(t, out, "source=")
}

func TestSourceHandler_RespectsBaseLevel(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler := NewSourceHandler(base, slog.LevelError)

	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInit_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	err := Init(&config.LoggerConfig{Level: "info", Format: "json", OutputPath: path}, "release")
	require.NoError(t, err)
	t.Cleanup(func() {
		Logger = nil
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	})

	NewLogger().Infow("website created", "domain", "example.com")
	NewLogger().Debugw("filtered out")
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"website created"`)
	assert.Contains(t, string(data), `"domain":"example.com"`)
	assert.NotContains(t, string(data), "filtered out")
}

func TestFromSlog_NamedAndWith(t *testing.T) {
	var buf bytes.Buffer
	log := FromSlog(slog.New(slog.NewTextHandler(&buf, nil))).
		Named("connect").
		With("website_id", 7)

	log.Warnw("state rejected", "reason", "expired")
	log.Debugw("below level")

	out := buf.String()
	assert.Contains(t, out, "logger=connect")
	assert.Contains(t, out, "website_id=7")
	assert.Contains(t, out, "reason=expired")
	assert.NotContains(t, out, "below level")
}
