package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the inspector settings. Values come from the defaults, then
// the TOML config file, then explicit command line flags.
type Config struct {
	LogLevel              string `toml:"log_level"`
	Format                string `toml:"format"`
	Workers               int    `toml:"workers"`
	StrictLength          bool   `toml:"strict_length"`
	DistinctInterpolation bool   `toml:"distinct_interpolation"`
	MaxSize               int64  `toml:"max_size"`
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Format:   FormatText,
		Workers:  max(runtime.NumCPU()-1, 1),
	}
}

// LoadConfig reads a TOML file over the defaults.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the merged settings
//   - error: error if the file cannot be read, decoded or validated
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that have a closed set of values.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("%w: max_size must not be negative", ErrInvalidConfig)
	}
	return nil
}
