package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/titanous/json5"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Mode:       "sqlite",
			Name:       "NekoBot",
			SQLitePath: "~/.nekobot/nekobot.db",
		},
		RateLimit: RateLimitConfig{
			PerMinute: 20,
			Burst:     5,
		},
	}
}

// Load reads config from a JSON file, then overlays env vars.
// A missing file is not an error: defaults plus env are enough to run.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envInt64 := func(key string, dst *int64) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				*dst = n
			}
		}
	}

	if v := os.Getenv("NEKOBOT_API_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Telegram.APIID = n
		}
	}
	envStr("NEKOBOT_API_HASH", &c.Telegram.APIHash)
	envStr("NEKOBOT_BOT_TOKEN", &c.Telegram.BotToken)
	envInt64("NEKOBOT_OWNER_ID", &c.Telegram.OwnerID)

	envStr("NEKOBOT_DB_MODE", &c.Database.Mode)
	envStr("NEKOBOT_DB_NAME", &c.Database.Name)
	envStr("NEKOBOT_POSTGRES_DSN", &c.Database.PostgresDSN)
	envStr("NEKOBOT_SQLITE_PATH", &c.Database.SQLitePath)
}
