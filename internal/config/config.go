// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Import  ImportConfig  `toml:"import"`
	Log     LogConfig     `toml:"log"`
}

type LibraryConfig struct {
	// Root is the directory imported volumes are stored under.
	Root string `toml:"root"`
	// Database is the SQLite catalog path. Defaults to <root>/tanko.db.
	Database string `toml:"database"`
}

type ImportConfig struct {
	// BatchSize bounds concurrent archive entry decompression during
	// extraction. 0 uses the built-in default.
	BatchSize int `toml:"batch_size"`
	// AutoConfirm answers yes to mismatch and image-only prompts.
	AutoConfirm bool `toml:"auto_confirm"`

	Progress *bool `toml:"progress"`
}

// ShowProgress reports whether per-item progress output is enabled.
// Defaults to true when not set in the config.
func (c *ImportConfig) ShowProgress() bool {
	if c.Progress == nil {
		return true
	}
	return *c.Progress
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads and parses the configuration file, substitutes environment
// variables, and validates the result. Unresolved variables and validation
// failures are reported together in one *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := parse(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file without
// checking it. Used by commands that inspect or repair the config itself.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := parse(path)
	return cfg, err
}

func parse(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Library.Database == "" && cfg.Library.Root != "" {
		cfg.Library.Database = filepath.Join(cfg.Library.Root, "tanko.db")
	}

	return &cfg, missing, nil
}
