package ukf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the static configuration of a UKF.
type Config struct {
	Noise NoiseParameters `yaml:"noise"`
	// If false, the sensor's measurements are ignored except for initialization.
	UseLidar bool `yaml:"use_lidar"`
	UseRadar bool `yaml:"use_radar"`
}

// DefaultConfig returns the default noise with both sensors enabled.
func DefaultConfig() Config {
	return Config{Noise: DefaultNoiseParameters(), UseLidar: true, UseRadar: true}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Noise.Validate(); err != nil {
		return err
	}
	if !c.UseLidar && !c.UseRadar {
		return fmt.Errorf("at least one of use_lidar and use_radar must be set")
	}
	return nil
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration over the defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
