package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Terminal config
	assert.Equal(t, 80, cfg.Terminal.Cols)
	assert.Equal(t, 24, cfg.Terminal.Rows)
	assert.Equal(t, "/bin/bash", cfg.Terminal.FallbackShell)
	assert.Equal(t, 5*time.Second, cfg.Terminal.ShutdownTimeout)

	// Theme config
	assert.Empty(t, cfg.Themes.Dir)
	assert.Empty(t, cfg.Themes.Default)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, cfg.RateLimit.SpawnsPerSecond)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                      "9000",
		"HOST":                      "0.0.0.0",
		"ALLOWED_ORIGINS":           "https://editor.example",
		"LOG_LEVEL":                 "debug",
		"LOG_DEV":                   "true",
		"TERMINAL_COLS":             "120",
		"TERMINAL_ROWS":             "40",
		"TERMINAL_SCROLLBACK_BYTES": "4096",
		"TERMINAL_FALLBACK_SHELL":   "/bin/sh",
		"TERMINAL_SHUTDOWN_TIMEOUT": "250ms",
		"THEME_DIR":                 "/etc/termhost/themes",
		"THEME_DEFAULT":             "dark",
		"SETTINGS_PATH":             "/var/lib/termhost/settings.yaml",
		"RATE_LIMIT_SPAWN_RPS":      "2",
		"RATE_LIMIT_ENABLED":        "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://editor.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 120, cfg.Terminal.Cols)
	assert.Equal(t, 40, cfg.Terminal.Rows)
	assert.Equal(t, 4096, cfg.Terminal.ScrollbackBytes)
	assert.Equal(t, "/bin/sh", cfg.Terminal.FallbackShell)
	assert.Equal(t, 250*time.Millisecond, cfg.Terminal.ShutdownTimeout)
	assert.Equal(t, "/etc/termhost/themes", cfg.Themes.Dir)
	assert.Equal(t, "dark", cfg.Themes.Default)
	assert.Equal(t, "/var/lib/termhost/settings.yaml", cfg.Settings.Path)
	assert.Equal(t, 2, cfg.RateLimit.SpawnsPerSecond)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric cols", key: "TERMINAL_COLS", value: "wide"},
		{name: "zero rows", key: "TERMINAL_ROWS", value: "0"},
		{name: "bad duration", key: "TERMINAL_SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "bad bool", key: "LOG_DEV", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}
