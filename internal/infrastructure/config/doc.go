// Package config loads runtime configuration from environment variables
// using envconfig. Every field has a default, so an empty environment yields
// Default().
package config
