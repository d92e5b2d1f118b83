// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration, populated from BACKOFFICE_*
// environment variables.
type Config struct {
	Addr      string `env:"BACKOFFICE_ADDR" envDefault:":8080"`
	DBPath    string `env:"BACKOFFICE_DB_PATH" envDefault:"backoffice.db"`
	JWTSecret string `env:"BACKOFFICE_JWT_SECRET"`

	// AuthDisabled skips token verification and trusts the X-Organization-ID
	// header instead. Local development only.
	AuthDisabled bool `env:"BACKOFFICE_AUTH_DISABLED" envDefault:"false"`

	SweepExpireInterval  time.Duration `env:"BACKOFFICE_SWEEP_EXPIRE_INTERVAL" envDefault:"1h"`
	SweepOverdueInterval time.Duration `env:"BACKOFFICE_SWEEP_OVERDUE_INTERVAL" envDefault:"10m"`

	// SettlementReplayPolicy is "strict" or "idempotent".
	SettlementReplayPolicy string `env:"BACKOFFICE_SETTLEMENT_REPLAY_POLICY" envDefault:"strict"`

	EventBufferSize int `env:"BACKOFFICE_EVENT_BUFFER_SIZE" envDefault:"256"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if !cfg.AuthDisabled && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("BACKOFFICE_JWT_SECRET is required unless BACKOFFICE_AUTH_DISABLED=true")
	}
	return &cfg, nil
}
