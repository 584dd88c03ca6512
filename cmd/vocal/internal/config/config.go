// Package config provides the configuration system for the vocal CLI.
//
// Configuration is stored under os.UserConfigDir()/vocal/:
//
//	~/Library/Application Support/vocal/   (macOS)
//	~/.config/vocal/                       (Linux)
//	%AppData%/vocal/                       (Windows)
//
// Layout:
//
//	vocal/
//	├── tuning.yaml    # optional pipeline threshold overrides
//	└── profiles/      # badger database of enrollment profiles
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "vocal"

	// tuningFile holds the optional threshold overrides.
	tuningFile = "tuning.yaml"

	// profilesDir holds the enrollment profile database.
	profilesDir = "profiles"
)

// Config holds the root configuration state.
type Config struct {
	// Dir is the root configuration directory.
	Dir string

	// Tuning holds the effective pipeline thresholds.
	Tuning Tuning
}

// Load loads the configuration from the default location.
func Load() (*Config, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir))
}

// LoadFrom loads the configuration from a specific root directory. A
// missing tuning file leaves the defaults in place.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{Dir: dir, Tuning: DefaultTuning()}

	data, err := os.ReadFile(filepath.Join(dir, tuningFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg.Tuning); err != nil {
		return nil, fmt.Errorf("parse %s: %w", tuningFile, err)
	}
	return cfg, nil
}

// ProfilesDir returns the enrollment profile database directory, creating
// it if needed.
func (c *Config) ProfilesDir() (string, error) {
	dir := filepath.Join(c.Dir, profilesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create profiles dir: %w", err)
	}
	return dir, nil
}

// LoadTuningFile overlays threshold overrides from an explicit file path,
// on top of whatever the config directory provided.
func (c *Config) LoadTuningFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &c.Tuning); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// SaveTuning writes the current tuning values back to disk.
func (c *Config) SaveTuning() error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c.Tuning)
	if err != nil {
		return fmt.Errorf("encode tuning: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.Dir, tuningFile), data, 0o644); err != nil {
		return fmt.Errorf("write tuning: %w", err)
	}
	return nil
}
