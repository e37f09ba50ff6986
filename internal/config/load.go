package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name probed in the working directory
// when no --config flag is given.
const DefaultFile = "vcxsync.yaml"

// Load reads a YAML file over cfg, expanding ${VAR} environment
// references before unmarshalling, then validates the result. Fields
// absent from the file keep whatever cfg already holds, so callers pass
// in Default().
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// LoadOptional behaves like Load but treats a missing file as "keep the
// defaults already in cfg".
func LoadOptional(path string, cfg *Config) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg.Validate()
	}
	return Load(path, cfg)
}
