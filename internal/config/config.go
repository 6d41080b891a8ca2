package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the root configuration for NekoBot.
type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Database  DatabaseConfig  `json:"database,omitempty"`
	RateLimit RateLimitConfig `json:"rate_limit,omitempty"`
}

// TelegramConfig holds the bot credentials. API ID/hash are carried for
// MTProto-side tooling and passed through untouched; only the bot token
// is needed to talk to the Bot API.
type TelegramConfig struct {
	APIID    int    `json:"api_id,omitempty"`
	APIHash  string `json:"-"` // from env NEKOBOT_API_HASH only
	BotToken string `json:"-"` // from env NEKOBOT_BOT_TOKEN only
	OwnerID  int64  `json:"owner_id"`
}

// DatabaseConfig selects the staff store backend.
// PostgresDSN is NEVER read from the config file (secret) — only from
// env NEKOBOT_POSTGRES_DSN.
type DatabaseConfig struct {
	Mode        string `json:"mode,omitempty"` // "sqlite" (default) or "postgres"
	Name        string `json:"name,omitempty"` // logical database name
	PostgresDSN string `json:"-"`
	SQLitePath  string `json:"sqlite_path,omitempty"`
}

// RateLimitConfig bounds per-sender command throughput.
type RateLimitConfig struct {
	PerMinute int `json:"per_minute,omitempty"` // 0 disables limiting
	Burst     int `json:"burst,omitempty"`
}

// IsPostgres returns true when the staff store should use Postgres.
func (c *Config) IsPostgres() bool {
	return c.Database.Mode == "postgres" && c.Database.PostgresDSN != ""
}

// Validate reports fatal configuration errors. Missing credentials
// abort startup before anything is connected.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is not set (NEKOBOT_BOT_TOKEN)")
	}
	if c.Telegram.OwnerID == 0 {
		return fmt.Errorf("owner_id is not set")
	}
	if c.Database.Mode == "postgres" && c.Database.PostgresDSN == "" {
		return fmt.Errorf("database mode is postgres but NEKOBOT_POSTGRES_DSN is not set")
	}
	return nil
}

// ExpandHome expands a leading "~" in a path to the user home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
