// Package app holds the bootstrap shared by the commands: config, env,
// logging and the wiring of stores and clients.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/tencric/cricbet/internal/auth"
	"github.com/tencric/cricbet/internal/ledger"
	"github.com/tencric/cricbet/internal/notify"
	"github.com/tencric/cricbet/internal/pkg/clock"
	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/logging"
	"github.com/tencric/cricbet/internal/pkg/storage"
	"github.com/tencric/cricbet/internal/tencric"
)

// Bootstrap loads .env, the config file and sets up logging. A missing
// config file is not fatal; defaults cover local runs.
func Bootstrap(configPath, service string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	applyEnvOverrides(cfg)

	if _, err := logging.SetupLogger(&cfg.Logging, service); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment secrets stay out of the config file.
func applyEnvOverrides(cfg *config.Config) {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
		cfg.Telegram.Enabled = true
	}
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.ChatID = chatID
		}
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
}

// NewClient builds the authenticated sportsbook client.
func NewClient(cfg *config.Config) (*tencric.Client, error) {
	creds, err := auth.LoadCredentials(cfg.Auth.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return tencric.NewClient(&cfg.Tencric, creds.PlayerID, creds.SportsbookToken), nil
}

// NewLedgerStore picks the configured ledger backend.
func NewLedgerStore(cfg *config.Config) (storage.LedgerStore, error) {
	switch cfg.Ledger.Backend {
	case "postgres":
		return storage.NewPostgresLedger(&cfg.Postgres)
	case "file", "":
		return storage.NewFileLedger(cfg.Ledger.File), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// NewTracker builds the duplicate-stake guard over the configured backend.
func NewTracker(ctx context.Context, cfg *config.Config, clk clock.Clock) (*ledger.Tracker, storage.LedgerStore, error) {
	store, err := NewLedgerStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	tracker, err := ledger.NewTracker(ctx, store, clk)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return tracker, store, nil
}

// NewCache builds the Redis cache when enabled; nil otherwise. Cache
// failures degrade to direct API fetches, so errors only warn.
func NewCache(cfg *config.Config) *storage.MatchCache {
	if !cfg.Redis.Enabled {
		return nil
	}
	cache, err := storage.NewMatchCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		return nil
	}
	return cache
}

// NewNotifier builds the Telegram notifier when configured; nil otherwise.
func NewNotifier(cfg *config.Config) *notify.Notifier {
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		return nil
	}
	return notify.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
}
