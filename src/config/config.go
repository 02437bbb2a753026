// Package config loads service settings from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/lost-woods/cardkit/src/rng"
)

const (
	SourceSerial = "serial"
	SourcePRNG   = "prng"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"777"`
	APIKey string `env:"API_KEY"`

	// RNGSource selects the entropy behind shuffles and ids: serial or prng.
	RNGSource      string        `env:"RNG_SOURCE" envDefault:"prng"`
	HealthInterval time.Duration `env:"RNG_HEALTH_INTERVAL" envDefault:"10s"`

	SerialDevice string `env:"SERIAL_DEVICE_NAME"`
	SerialBaud   int    `env:"SERIAL_BAUD_RATE" envDefault:"115200"`
	// SerialReadTimeoutMs is in milliseconds, matching the deployed env files.
	SerialReadTimeoutMs int `env:"SERIAL_READ_TIMEOUT" envDefault:"1000"`

	MaxDecks int `env:"MAX_DECKS" envDefault:"10000"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.RNGSource {
	case SourcePRNG:
	case SourceSerial:
		if c.SerialDevice == "" {
			return errors.New("SERIAL_DEVICE_NAME is required when RNG_SOURCE=serial")
		}
		if c.SerialBaud <= 0 {
			return errors.Errorf("invalid SERIAL_BAUD_RATE: %d", c.SerialBaud)
		}
		if c.SerialReadTimeoutMs < 0 {
			return errors.Errorf("invalid SERIAL_READ_TIMEOUT: %d", c.SerialReadTimeoutMs)
		}
	default:
		return errors.Errorf("invalid RNG_SOURCE %q (use %s or %s)", c.RNGSource, SourceSerial, SourcePRNG)
	}
	if c.HealthInterval <= 0 {
		return errors.Errorf("invalid RNG_HEALTH_INTERVAL: %s", c.HealthInterval)
	}
	return nil
}

func (c Config) Serial() rng.SerialConfig {
	return rng.SerialConfig{
		Device:      c.SerialDevice,
		Baud:        c.SerialBaud,
		ReadTimeout: time.Duration(c.SerialReadTimeoutMs) * time.Millisecond,
	}
}
