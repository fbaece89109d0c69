package config

import (
	"log/slog"
	"strings"

	"github.com/golobby/config/v3"
	"github.com/golobby/config/v3/pkg/feeder"
)

type Config struct {
	Daemon DaemonConfig
	Player PlayerConfig
}

type DaemonConfig struct {
	DBPath        string `env:"DB_PATH"`
	ListenAddr    string `env:"LISTEN_ADDR"`
	LogLevel      string `env:"LOG_LEVEL"`
	ControlSecret string `env:"CONTROL_SECRET"`
}

type PlayerConfig struct {
	AdTagURL      string `env:"AD_TAG_URL"`
	DRMLicenseURL string `env:"DRM_LICENSE_URL"`
	BlockIfRooted bool   `env:"BLOCK_IF_ROOTED"`
}

// Load feeds the config from the environment. Defaults are applied for
// anything the environment leaves blank.
func Load() (Config, error) {
	var cfg Config
	if err := config.New().AddFeeder(feeder.Env{}).AddStruct(&cfg).Feed(); err != nil {
		return cfg, err
	}
	if cfg.Daemon.ListenAddr == "" {
		cfg.Daemon.ListenAddr = ":8080"
	}
	return cfg, nil
}

func (c *Config) GetLogLevel() slog.Leveler {
	logLevel := strings.ToLower(c.Daemon.LogLevel)
	if logLevel == "error" {
		return slog.LevelError
	}
	if logLevel == "warning" {
		return slog.LevelWarn
	}
	if logLevel == "info" {
		return slog.LevelInfo
	}
	if logLevel == "debug" {
		return slog.LevelDebug
	}
	// default to info if unknown
	slog.With(slog.String("log_level", logLevel)).Info("Received invalid log level. Defaulting to INFO.")
	return slog.LevelInfo
}
