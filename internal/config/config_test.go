package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Database.Mode != "sqlite" {
		t.Errorf("default database mode = %q, want sqlite", cfg.Database.Mode)
	}
	if cfg.Database.Name != "NekoBot" {
		t.Errorf("default database name = %q, want NekoBot", cfg.Database.Name)
	}
	if cfg.RateLimit.PerMinute == 0 {
		t.Error("default rate limit should be non-zero")
	}
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("NEKOBOT_BOT_TOKEN", "123456:test-token")
	t.Setenv("NEKOBOT_OWNER_ID", "777")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.BotToken != "123456:test-token" {
		t.Errorf("bot token = %q, want env value", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.OwnerID != 777 {
		t.Errorf("owner ID = %d, want 777", cfg.Telegram.OwnerID)
	}
}

func TestLoadFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		// JSON5: comments and trailing commas are fine
		telegram: { api_id: 12345, owner_id: 111 },
		database: { mode: "sqlite", sqlite_path: "/tmp/neko-test.db" },
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEKOBOT_OWNER_ID", "222")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.APIID != 12345 {
		t.Errorf("api ID = %d, want 12345", cfg.Telegram.APIID)
	}
	if cfg.Telegram.OwnerID != 222 {
		t.Errorf("owner ID = %d, want env override 222", cfg.Telegram.OwnerID)
	}
	if cfg.Database.SQLitePath != "/tmp/neko-test.db" {
		t.Errorf("sqlite path = %q, want file value", cfg.Database.SQLitePath)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }, true},
		{"missing owner", func(c *Config) { c.Telegram.OwnerID = 0 }, true},
		{"postgres without dsn", func(c *Config) { c.Database.Mode = "postgres" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Telegram.BotToken = "123456:test-token"
			cfg.Telegram.OwnerID = 1
			tc.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("validate error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
