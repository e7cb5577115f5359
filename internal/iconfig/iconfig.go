// Package iconfig reads the instrument session configuration (iconfig.yml):
// run-engine metadata defaults, data-file writer toggles, and the ordered
// list of device manifests the load sequencer runs through.
//
// The key casing follows the conventions of beamline instrument configs,
// where session-level settings are upper-case YAML keys.
package iconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Shutter manifest selection modes.
const (
	ModeOperating = "operating"
	ModeSimulated = "simulated"
)

// Config carries the session-level instrument settings.
type Config struct {
	Version   string    `yaml:"ICONFIG_VERSION"`
	RunEngine RunEngine `yaml:"RUN_ENGINE"`
	Nexus     Writer    `yaml:"NEXUS_DATA_FILES"`
	Spec      Writer    `yaml:"SPEC_DATA_FILES"`
	Baseline  Baseline  `yaml:"BASELINE_LABEL"`
	Manifests Manifests `yaml:"DEVICE_MANIFESTS"`
}

// RunEngine holds defaults passed through to the external run engine. The
// metadata map is stamped onto every run; this subsystem only carries it.
type RunEngine struct {
	Metadata map[string]string `yaml:"DEFAULT_METADATA"`
}

// Writer toggles an optional data-file writer callback.
type Writer struct {
	Enable bool `yaml:"ENABLE"`
}

// Baseline configures the label used to collect baseline-stream devices.
type Baseline struct {
	Enable bool   `yaml:"ENABLE"`
	Label  string `yaml:"LABEL"`
}

// Manifests declares which device manifests to load, in order. The shutter
// manifest is selected by mode and always loads after the base manifests, so
// shutters may reference devices declared earlier.
type Manifests struct {
	Base     []string `yaml:"BASE"`
	Shutters Shutters `yaml:"SHUTTERS"`
}

// Shutters selects between the operating and simulated shutter manifests.
type Shutters struct {
	Mode      string `yaml:"MODE"`
	Operating string `yaml:"OPERATING"`
	Simulated string `yaml:"SIMULATED"`
}

// Load reads and parses an iconfig file. Unknown keys are rejected so that a
// misspelled setting fails the session start instead of being ignored.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instrument config: %w", err)
	}
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing instrument config %s: %w", path, err)
	}
	if cfg.Manifests.Shutters.Mode == "" {
		cfg.Manifests.Shutters.Mode = ModeSimulated
	}
	return cfg, nil
}

// ManifestPaths resolves the ordered manifest list against the config
// directory. Order is a hard dependency: base manifests first, as written,
// then the shutter manifest for the configured mode.
func (c *Config) ManifestPaths(baseDir string) ([]string, error) {
	paths := make([]string, 0, len(c.Manifests.Base)+1)
	for _, rel := range c.Manifests.Base {
		paths = append(paths, filepath.Join(baseDir, rel))
	}
	switch c.Manifests.Shutters.Mode {
	case ModeOperating:
		if c.Manifests.Shutters.Operating != "" {
			paths = append(paths, filepath.Join(baseDir, c.Manifests.Shutters.Operating))
		}
	case ModeSimulated:
		if c.Manifests.Shutters.Simulated != "" {
			paths = append(paths, filepath.Join(baseDir, c.Manifests.Shutters.Simulated))
		}
	default:
		return nil, fmt.Errorf("unknown shutter mode %q (want %q or %q)",
			c.Manifests.Shutters.Mode, ModeOperating, ModeSimulated)
	}
	return paths, nil
}
