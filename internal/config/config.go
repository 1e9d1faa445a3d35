package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the data directory.
const FileName = "stride.yml"

// Config models stride.yml.
type Config struct {
	User struct {
		Name string `yaml:"name"`
	} `yaml:"user"`
	Storage struct {
		DataDir   string `yaml:"data_dir"`
		TasksFile string `yaml:"tasks_file"`
	} `yaml:"storage"`
	Assist struct {
		Enabled        bool   `yaml:"enabled"`
		Model          string `yaml:"model"`
		Host           string `yaml:"host"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"assist"`
}

// Path returns the config file path under a data directory.
func Path(dataDir string) string {
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, FileName)
}

// Default returns the built-in config.
func Default() *Config {
	var cfg Config
	cfg.Assist.TimeoutSeconds = 10
	return &cfg
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Assist.TimeoutSeconds < 0 {
		return fmt.Errorf("config.assist.timeout_seconds must not be negative")
	}
	if c.Assist.Enabled && c.Assist.Model == "" {
		return fmt.Errorf("config.assist.model is required when assist is enabled")
	}
	return nil
}

// FromYAML parses and validates config from raw YAML bytes. Fields left
// out keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(dataDir string) (*Config, error) {
	data, err := os.ReadFile(Path(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}
