package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Daemon.ListenAddr)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AD_TAG_URL", "https://ads.example.com/vmap?mid={media_id}")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Daemon.ListenAddr)
	assert.Equal(t, "https://ads.example.com/vmap?mid={media_id}", cfg.Player.AdTagURL)
	assert.Equal(t, slog.LevelDebug, cfg.GetLogLevel())
}

func TestGetLogLevelDefaultsToInfo(t *testing.T) {
	cfg := Config{}
	cfg.Daemon.LogLevel = "chatty"
	assert.Equal(t, slog.LevelInfo, cfg.GetLogLevel())

	cfg.Daemon.LogLevel = "ERROR"
	assert.Equal(t, slog.LevelError, cfg.GetLogLevel())
}
