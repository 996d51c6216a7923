// Package config loads the driver configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level driver configuration.
type Config struct {
	Motors    MotorsConfig    `yaml:"motors"`
	Transport TransportConfig `yaml:"transport"`
}

// MotorsConfig holds the fleet geometry.
type MotorsConfig struct {
	// Count is the number of controllers expected on the bus,
	// occupying contiguous slots starting at 0.
	Count uint8 `yaml:"count"`
}

// TransportConfig selects and parameterizes the bus transport.
type TransportConfig struct {
	Kind string `yaml:"kind"` // "i2c" or "serial"
	Bus  string `yaml:"bus"`  // i2c bus name, e.g. "/dev/i2c-1"; empty selects the first
	Port string `yaml:"port"` // serial bridge port, e.g. "/dev/ttyUSB0"
	Baud int    `yaml:"baud"`
}

// Load reads, parses, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Transport.Kind == "" {
		c.Transport.Kind = "i2c"
	}
	if c.Transport.Baud == 0 {
		c.Transport.Baud = 57600
	}
}

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	if c.Motors.Count == 0 || c.Motors.Count > 8 {
		return fmt.Errorf("motors.count must be 1-8, got %d", c.Motors.Count)
	}

	switch c.Transport.Kind {
	case "i2c":
	case "serial":
		if c.Transport.Port == "" {
			return errors.New("transport.port is required for the serial bridge")
		}
	default:
		return fmt.Errorf("unknown transport.kind %q", c.Transport.Kind)
	}

	return nil
}

// MotorCount implements blctl.ConfigStore.
func (c *Config) MotorCount() (uint8, error) {
	return c.Motors.Count, nil
}
