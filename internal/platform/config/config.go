package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is centralized process configuration. Infra values live here and are
// passed as typed config into builders.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"univote"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`

	// DatabaseDriver selects the gorm driver: "postgres" for deployments,
	// "sqlite" for local development.
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"postgres"`
	PostgresDSN    string `envconfig:"POSTGRES_DSN"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"univote.db"`

	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	RunoffWindow  time.Duration `envconfig:"RUNOFF_WINDOW" default:"24h"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"30s"`
}

func Load() (Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}
