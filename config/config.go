// Package config reads the server settings from the environment and the
// board presets from YAML.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minefield/model"
)

const DefaultMaxCells = 10000

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	PresetsFile   string `env:"MINEFIELD_PRESETS"`
	LayoutFile    string `env:"MINEFIELD_LAYOUT"`
	DefaultPreset string `env:"MINEFIELD_DEFAULT_PRESET" envDefault:"beginner"`
	// MaxCells caps boards requested with custom dimensions.
	MaxCells int `env:"MINEFIELD_MAX_CELLS" envDefault:"10000"`
	// Seed fixes mine placement when non zero.
	Seed int64 `env:"MINEFIELD_SEED"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.MaxCells <= 0 || cfg.MaxCells > model.MaxCells {
		return Config{}, fmt.Errorf("max cells %d outside 1..%d", cfg.MaxCells, model.MaxCells)
	}
	return cfg, nil
}

// ApplyLogLevel sets the logrus level named by the config.
func (c Config) ApplyLogLevel() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	log.SetLevel(level)
	return nil
}
