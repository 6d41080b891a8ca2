package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/nekoprojects/nekobot/internal/bot"
	"github.com/nekoprojects/nekobot/internal/config"
	"github.com/nekoprojects/nekobot/internal/plugins"
	"github.com/nekoprojects/nekobot/internal/store"
	"github.com/nekoprojects/nekobot/internal/store/pg"
	"github.com/nekoprojects/nekobot/internal/store/sqlite"
)

func runBot() {
	// Setup structured logging
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Load config
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Open the staff store: Postgres in managed deployments, a local
	// SQLite file otherwise.
	staffStore, err := openStaffStore(cfg)
	if err != nil {
		slog.Error("failed to open staff store", "error", err)
		os.Exit(1)
	}

	b, err := bot.New(cfg, staffStore, plugins.All())
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		staffStore.Close()
		os.Exit(1)
	}

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		slog.Error("failed to start bot", "error", err)
		staffStore.Close()
		os.Exit(1)
	}

	slog.Info("nekobot started", "version", Version, "database", cfg.Database.Mode)

	// Blocks until a stop signal arrives; shutdown closes the store.
	if err := b.Run(ctx, nil); err != nil {
		slog.Error("bot exited with error", "error", err)
		os.Exit(1)
	}
}

func openStaffStore(cfg *config.Config) (store.StaffStore, error) {
	if cfg.IsPostgres() {
		db, err := pg.OpenDB(cfg.Database.PostgresDSN)
		if err != nil {
			return nil, err
		}
		slog.Info("staff store: postgres", "database", cfg.Database.Name)
		return pg.NewPGStaffStore(db), nil
	}

	path := config.ExpandHome(cfg.Database.SQLitePath)
	st, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Info("staff store: sqlite", "path", path)
	return st, nil
}
