// Package config loads the mcp4xxx tool settings from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mbalug7/go-mcp4xxx/pkg/mcp4xxx"
	"github.com/mbalug7/go-mcp4xxx/pkg/usbi2c"
)

const (
	TransportI2CDev = "i2cdev"
	TransportUSBI2C = "usbi2c"
)

// Config holds the bus, device and logging settings of the tool.
type Config struct {
	Transport    string        `yaml:"transport" validate:"oneof=i2cdev usbi2c"`
	Device       string        `yaml:"device" validate:"required"`
	Address      uint8         `yaml:"address" validate:"gte=8,lte=119"`
	Baud         int           `yaml:"baud" validate:"gt=0"`
	LogLevel     string        `yaml:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	WriteProtect *WriteProtect `yaml:"write_protect"`
}

// WriteProtect names the GPIO line wired to the chip WP pin.
type WriteProtect struct {
	Chip string `yaml:"chip" validate:"required"`
	Line int    `yaml:"line" validate:"gte=0"`
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Transport: TransportI2CDev,
		Device:    "/dev/i2c-1",
		Address:   mcp4xxx.BaseAddr,
		Baud:      usbi2c.DefaultBaud,
		LogLevel:  "debug",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
