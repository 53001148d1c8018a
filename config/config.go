// Package config provides configuration file support for uping.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mikaelmello/uping/core"
)

// Config represents the uping configuration file structure.
type Config struct {
	// Defaults are applied when flags are not specified
	Defaults Defaults `yaml:"defaults"`

	// Aliases map short names to hosts
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// Defaults holds default values for ping parameters.
type Defaults struct {
	Count          int           `yaml:"count"`
	Timeout        time.Duration `yaml:"timeout"`
	Interval       time.Duration `yaml:"interval"`
	Size           int           `yaml:"size"`
	TTL            int           `yaml:"ttl"`
	Quiet          bool          `yaml:"quiet"`
	VerifyChecksum bool          `yaml:"verify_checksum"`
	NoColor        bool          `yaml:"no_color"`
	Summary        bool          `yaml:"summary"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	settings := core.DefaultSettings()

	return &Config{
		Defaults: Defaults{
			Count:          settings.Count,
			Timeout:        settings.Timeout,
			Interval:       settings.Interval,
			Size:           settings.Size,
			TTL:            settings.TTL,
			Quiet:          settings.Quiet,
			VerifyChecksum: settings.VerifyChecksum,
			NoColor:        false,
			Summary:        false,
		},
		Aliases: make(map[string]string),
	}
}

// Load reads configuration from the first config file found in
// ./uping.yaml, ./.uping.yaml and the user config path.
// If no config file is found, returns default configuration.
func Load() (*Config, error) {
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFrom reads configuration from a specific file path.
// Keys missing from the file keep their default value.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveTo writes the configuration to a specific file path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Resolve returns the host an alias points to, or host itself.
func (c *Config) Resolve(host string) string {
	if target, ok := c.Aliases[host]; ok {
		return target
	}
	return host
}

// Settings builds core settings from the defaults.
func (c *Config) Settings() *core.Settings {
	settings := core.DefaultSettings()

	settings.Count = c.Defaults.Count
	settings.Timeout = c.Defaults.Timeout
	settings.Interval = c.Defaults.Interval
	settings.Size = c.Defaults.Size
	settings.TTL = c.Defaults.TTL
	settings.Quiet = c.Defaults.Quiet
	settings.VerifyChecksum = c.Defaults.VerifyChecksum

	return settings
}

func getConfigPaths() []string {
	paths := []string{
		"uping.yaml",
		".uping.yaml",
	}

	if userPath := getUserConfigPath(); userPath != "" {
		paths = append(paths, userPath)
	}

	return paths
}

func getUserConfigPath() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "uping", "config.yaml")
		}
		return ""
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "uping", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "uping", "config.yaml")
}

// GetConfigPath returns the path of the user config file.
func GetConfigPath() string {
	return getUserConfigPath()
}
