package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "plexgram.db" {
			t.Errorf("expected database path plexgram.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8484 {
			t.Errorf("expected server port 8484, got %d", config.Server.Port)
		}

		if config.Plex.ServerURL != "http://localhost:32400" {
			t.Errorf("expected plex server URL http://localhost:32400, got %s", config.Plex.ServerURL)
		}

		if config.Plex.TimeoutSeconds != 10 {
			t.Errorf("expected timeout 10s, got %d", config.Plex.TimeoutSeconds)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[telegram]
token = "123:abc"
operator = "admin"
operator_chat_id = 555

[plex]
server_url = "http://plex.local:32400"
client_id = "test-client"
timeout_seconds = 5
max_results = 3

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Telegram.Token != "123:abc" {
			t.Errorf("expected token 123:abc, got %s", config.Telegram.Token)
		}
		if config.Telegram.OperatorChatID != 555 {
			t.Errorf("expected operator chat 555, got %d", config.Telegram.OperatorChatID)
		}
		if config.Plex.ServerURL != "http://plex.local:32400" {
			t.Errorf("expected plex server URL, got %s", config.Plex.ServerURL)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("ApplyEnv overrides file values", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "env-token")
		t.Setenv("TELEGRAM_OPERATOR", "envop")
		t.Setenv("TELEGRAM_OPERATOR_CHAT_ID", "777")
		t.Setenv("PLEX_SERVER_URL", "http://env.plex:32400")
		t.Setenv("PLEXGRAM_DB_PATH", "/env/path.db")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Telegram.Token != "env-token" {
			t.Errorf("expected env token, got %s", config.Telegram.Token)
		}
		if config.Telegram.Operator != "envop" {
			t.Errorf("expected env operator, got %s", config.Telegram.Operator)
		}
		if config.Telegram.OperatorChatID != 777 {
			t.Errorf("expected operator chat 777, got %d", config.Telegram.OperatorChatID)
		}
		if config.Plex.ServerURL != "http://env.plex:32400" {
			t.Errorf("expected env plex URL, got %s", config.Plex.ServerURL)
		}
		if config.Database.Path != "/env/path.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
	})

	t.Run("ApplyEnv ignores malformed chat id", func(t *testing.T) {
		t.Setenv("TELEGRAM_OPERATOR_CHAT_ID", "not-a-number")

		config := DefaultConfig()
		config.Telegram.OperatorChatID = 42
		config.ApplyEnv()

		if config.Telegram.OperatorChatID != 42 {
			t.Errorf("expected chat id to stay 42, got %d", config.Telegram.OperatorChatID)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Telegram.Token = "123:abc"
		config.Telegram.OperatorChatID = 555

		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}

		missingToken := DefaultConfig()
		missingToken.Telegram.OperatorChatID = 555
		if err := missingToken.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}

		missingChat := DefaultConfig()
		missingChat.Telegram.Token = "123:abc"
		if err := missingChat.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
