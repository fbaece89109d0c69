package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/sambatech/player-sdk-go/config"
	"github.com/sambatech/player-sdk-go/db"
	"github.com/sambatech/player-sdk-go/events"
	"github.com/sambatech/player-sdk-go/jobs"
	"github.com/sambatech/player-sdk-go/migrations"
	"github.com/sambatech/player-sdk-go/player"
	"github.com/sambatech/player-sdk-go/routes"
	"github.com/sambatech/player-sdk-go/utils"
)

func main() {

	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.GetLogLevel(),
	}))
	slog.SetDefault(logger)

	if utils.GetEnv("RESET_DB", "0") == "1" && cfg.Daemon.DBPath != "" {
		if err := os.Remove(cfg.Daemon.DBPath); err != nil {
			slog.Error("Failed to reset playback database", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var store db.Store
	if cfg.Daemon.DBPath != "" {
		sqlite, err := db.NewSqliteStore(cfg.Daemon.DBPath)
		if err != nil {
			slog.Error("Failed to open playback database", slog.Any("error", err))
			os.Exit(1)
		}
		store = sqlite
	} else {
		slog.Warn("DB_PATH is unset so playback history will not survive restarts")
		store = db.NewMemoryStore()
	}

	if err := store.ApplyMigrations(migrations.GetMigrations()); err != nil {
		slog.Error("Failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	events.Init()

	p := player.New(player.SimulatorFactory)
	defer p.Destroy()

	recorder := jobs.NewSessionRecorder(p, store)
	p.Subscribe(recorder)
	p.Subscribe(events.NewBridge(p))

	jobScheduler, err := jobs.SetupInBackground(recorder)
	if err != nil {
		slog.Error("Failed to schedule background jobs", slog.Any("error", err))
		os.Exit(1)
	}
	jobScheduler.StartAsync()

	router := routes.Register(http.NewServeMux(), p, store, cfg)

	slog.Info("SambaPlayer daemon is running", slog.String("addr", cfg.Daemon.ListenAddr))

	if err := http.ListenAndServe(cfg.Daemon.ListenAddr, router); err != nil {
		slog.Error("Server stopped", slog.Any("error", err))
		jobScheduler.Stop()
		os.Exit(1)
	}
}
