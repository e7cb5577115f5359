package app

import (
	"errors"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigDir is the directory holding iconfig.yml and the device
	// manifests it names.
	ConfigDir string

	// IconfigName is the instrument config file name inside ConfigDir.
	IconfigName string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigDir == "" {
		return nil, errors.New("ConfigDir is a required configuration field and cannot be empty")
	}
	if cfg.IconfigName == "" {
		cfg.IconfigName = "iconfig.yml"
	}
	return &cfg, nil
}

// IconfigPath returns the full path of the instrument config file.
func (c *Config) IconfigPath() string {
	return filepath.Join(c.ConfigDir, c.IconfigName)
}
