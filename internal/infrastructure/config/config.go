package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	Terminal  TerminalConfig
	Themes    ThemeConfig
	Settings  SettingsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string   `envconfig:"PORT" default:"8000"`
	Host           string   `envconfig:"HOST" default:"127.0.0.1"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// TerminalConfig holds defaults for spawned shells.
type TerminalConfig struct {
	Cols            int           `envconfig:"TERMINAL_COLS" default:"80"`
	Rows            int           `envconfig:"TERMINAL_ROWS" default:"24"`
	ScrollbackBytes int           `envconfig:"TERMINAL_SCROLLBACK_BYTES" default:"1048576"`
	FallbackShell   string        `envconfig:"TERMINAL_FALLBACK_SHELL" default:"/bin/bash"`
	ShutdownTimeout time.Duration `envconfig:"TERMINAL_SHUTDOWN_TIMEOUT" default:"5s"`
}

// ThemeConfig holds theme discovery configuration.
type ThemeConfig struct {
	Dir     string `envconfig:"THEME_DIR" default:""`
	Default string `envconfig:"THEME_DEFAULT" default:""`
}

// SettingsConfig holds preference persistence configuration.
type SettingsConfig struct {
	Path string `envconfig:"SETTINGS_PATH" default:""`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	SpawnsPerSecond   int  `envconfig:"RATE_LIMIT_SPAWN_RPS" default:"5"`
	SpawnBurst        int  `envconfig:"RATE_LIMIT_SPAWN_BURST" default:"10"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Terminal.Cols <= 0 || c.Terminal.Rows <= 0 {
		return fmt.Errorf("invalid terminal size %dx%d", c.Terminal.Cols, c.Terminal.Rows)
	}
	if c.Terminal.ScrollbackBytes <= 0 {
		return fmt.Errorf("invalid scrollback size %d", c.Terminal.ScrollbackBytes)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8000",
			Host:           "127.0.0.1",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Terminal: TerminalConfig{
			Cols:            80,
			Rows:            24,
			ScrollbackBytes: 1024 * 1024,
			FallbackShell:   "/bin/bash",
			ShutdownTimeout: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			SpawnsPerSecond:   5,
			SpawnBurst:        10,
			Enabled:           true,
		},
	}
}
