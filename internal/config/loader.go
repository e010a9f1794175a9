package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration, taking the YAML path from CONFIG_FILE.
//
// Sources, lowest priority first:
//  1. Defaults in code
//  2. .env in the working directory, if present (never overrides the environment)
//  3. The YAML file, if present
//  4. Environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom is Load with an explicit YAML path and without the .env step.
// An empty path means DefaultConfigFile.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := Defaults()
	cfg.ConfigFile = path

	if err := loadYAML(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.applyEnvironmentDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
