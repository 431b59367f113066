package config

import (
	"os"

	"gopkg.in/yaml.v3"

	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// ParseConfig loads a configuration file from disk, fills defaults,
// validates it, and returns the resulting model.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, hiveerrors.NewParseError(path, 0, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, hiveerrors.NewParseError(path, hiveerrors.YAMLLine(err), err)
	}

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, hiveerrors.NewParseError(path, 0, err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load parses path, or returns the defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return ParseConfig(path)
}
