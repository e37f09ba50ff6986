// Package config holds the optional on-disk configuration for the CLI.
package config

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config is the full configuration tree. Every field has a default, so
// running without a config file is valid.
type Config struct {
	// Project is the default project document path, overridable per
	// invocation with the --project flag.
	Project string      `yaml:"project"`
	Scan    ScanConfig  `yaml:"scan"`
	Watch   WatchConfig `yaml:"watch"`
	Log     LogConfig   `yaml:"log"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Scan.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ScanConfig controls candidate file discovery.
type ScanConfig struct {
	Extension string `yaml:"extension"`
	Directory string `yaml:"directory"`
	Recursive bool   `yaml:"recursive"`
}

// Validate validates the scan configuration.
func (c *ScanConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Extension, validation.Required),
		validation.Field(&c.Directory, validation.Required),
	)
}

// WatchConfig controls the filesystem watcher.
type WatchConfig struct {
	// DebounceMS is how long the watcher waits after the last event
	// before it syncs the documents.
	DebounceMS int `yaml:"debounce_ms"`
	// Extensions lists the file extensions whose changes trigger a
	// sync.
	Extensions []string `yaml:"extensions"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DebounceMS, validation.Required, validation.Min(1)),
		validation.Field(&c.Extensions, validation.Required),
	)
}

// Debounce returns the debounce interval as a duration.
func (c *WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// LogConfig controls diagnostic output for long-running commands.
type LogConfig struct {
	Level slog.Level `yaml:"level"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extension: "cpp",
			Directory: ".",
		},
		Watch: WatchConfig{
			DebounceMS: 200,
			Extensions: []string{"cpp", "c", "cc", "cxx"},
		},
		Log: LogConfig{
			Level: slog.LevelInfo,
		},
	}
}
