package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/tatianab/party-house/internal/engine"
	"github.com/tatianab/party-house/internal/streak"
)

// Config holds the application configuration.
type Config struct {
	SaveDir       string `env:"PARTY_SAVE_DIR" envDefault:".saves"`
	StreakBackend string `env:"PARTY_STREAK_BACKEND" envDefault:"yaml"`
	Seed          int64  `env:"PARTY_SEED" envDefault:"0"`
	MaxRounds     int    `env:"PARTY_MAX_ROUNDS" envDefault:"25"`
	KickPolicy    string `env:"PARTY_KICK_POLICY" envDefault:"unlimited"`
	LogFile       string `env:"PARTY_LOG_FILE"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the game cannot run with.
func (c *Config) Validate() error {
	switch c.StreakBackend {
	case streak.BackendYAML, streak.BackendSQLite, streak.BackendMemory:
	default:
		return fmt.Errorf("PARTY_STREAK_BACKEND must be yaml, sqlite or memory, got %q", c.StreakBackend)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("PARTY_MAX_ROUNDS must be positive, got %d", c.MaxRounds)
	}
	if _, err := c.Kick(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Kick maps PARTY_KICK_POLICY to the engine's policy.
func (c *Config) Kick() (engine.KickPolicy, error) {
	switch c.KickPolicy {
	case "unlimited":
		return engine.KickUnlimited, nil
	case "once":
		return engine.KickOncePerInstance, nil
	}
	return 0, fmt.Errorf("PARTY_KICK_POLICY must be unlimited or once, got %q", c.KickPolicy)
}
