package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Settings are process-wide options read from the environment.
type Settings struct {
	DB          string     `env:"TENNIS_DB"           envDefault:"tennis.db"`
	LogLevel    slog.Level `env:"TENNIS_LOG_LEVEL"    envDefault:"info"`
	MetricsFile string     `env:"TENNIS_METRICS_FILE"`
	Workers     int        `env:"TENNIS_WORKERS"      envDefault:"4"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if s.Workers < 1 {
		return Settings{}, fmt.Errorf("parse env: TENNIS_WORKERS must be positive, got %d", s.Workers)
	}
	return s, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
