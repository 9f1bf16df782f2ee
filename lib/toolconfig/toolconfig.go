// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolconfig loads the tool's optional defaults file.
//
// The file is located by:
//   - PACKSTREAM_CONFIG environment variable, or
//   - --config flag passed to the command, or
//   - $XDG_CONFIG_HOME/packstream/config.yaml (falling back to
//     ~/.config/packstream/config.yaml).
//
// A missing file is not an error — the tool runs on built-in defaults.
// There are no other discovery fallbacks, so the effective configuration
// is always auditable.
package toolconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that overrides the config path.
const EnvVar = "PACKSTREAM_CONFIG"

// Config holds the tool defaults a user can persist. Command-line flags
// override every field.
type Config struct {
	// Format is the default compression format name (gzip, zstd, lz4).
	// Empty means gzip.
	Format string `yaml:"format"`

	// Level is the default compression level, 1..9. Zero means the
	// built-in default.
	Level int `yaml:"level"`

	// Keep preserves input files after successful compression or
	// decompression.
	Keep bool `yaml:"keep"`

	// Quiet suppresses warning diagnostics.
	Quiet bool `yaml:"quiet"`

	// Suffix overrides the compressed-file suffix for the chosen
	// format. Must start with a dot.
	Suffix string `yaml:"suffix"`
}

// Load reads the config file. flagPath is the --config value and may be
// empty; the environment variable takes precedence over it. When no path
// is configured and the default location does not exist, a zero Config
// is returned.
func Load(flagPath string) (*Config, error) {
	path := os.Getenv(EnvVar)
	explicit := path != ""
	if path == "" {
		path = flagPath
		explicit = path != ""
	}
	if path == "" {
		path = defaultPath()
	}
	if path == "" {
		return &Config{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if config.Suffix != "" && config.Suffix[0] != '.' {
		return nil, fmt.Errorf("config %s: suffix %q must start with a dot", path, config.Suffix)
	}
	return &config, nil
}

// defaultPath returns the XDG location of the defaults file, or empty
// when no home directory can be determined.
func defaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "packstream", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "packstream", "config.yaml")
}
