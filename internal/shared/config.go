package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Telegram TelegramConfig `toml:"telegram"`
	Plex     PlexConfig     `toml:"plex"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// TelegramConfig contains bot credentials and the operator identity.
type TelegramConfig struct {
	Token string `toml:"token"`
	// Operator is the Telegram username allowed to run /restart and /error.
	Operator string `toml:"operator"`
	// OperatorChatID is the destination for diagnostic reports.
	OperatorChatID int64 `toml:"operator_chat_id"`
}

// PlexConfig contains media server connection settings.
type PlexConfig struct {
	// ServerURL is the base URL of the Plex Media Server, e.g. "http://plex.local:32400".
	ServerURL string `toml:"server_url"`
	// ClientID is sent as X-Plex-Client-Identifier on every request.
	ClientID string `toml:"client_id"`
	// TimeoutSeconds bounds every call to the media server.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// MaxResults caps search answers per query.
	MaxResults int `toml:"max_results"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the optional ops HTTP server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config fields from the process environment. Environment
// wins over the file so deployments can keep secrets out of config.toml.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_OPERATOR"); v != "" {
		c.Telegram.Operator = v
	}
	if v := os.Getenv("TELEGRAM_OPERATOR_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.OperatorChatID = id
		}
	}
	if v := os.Getenv("PLEX_SERVER_URL"); v != "" {
		c.Plex.ServerURL = v
	}
	if v := os.Getenv("PLEX_CLIENT_ID"); v != "" {
		c.Plex.ClientID = v
	}
	if v := os.Getenv("PLEXGRAM_DB_PATH"); v != "" {
		c.Database.Path = v
	}
}

// Validate checks that the fields required to run the bot are present.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token", ErrMissingCredentials)
	}
	if c.Plex.ServerURL == "" {
		return fmt.Errorf("%w: plex.server_url", ErrInvalidConfig)
	}
	if c.Telegram.OperatorChatID == 0 {
		return fmt.Errorf("%w: telegram.operator_chat_id", ErrInvalidConfig)
	}
	return nil
}
