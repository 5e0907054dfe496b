package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/logger"
)

// Load reads settings from every source and validates them. An explicit
// path replaces the project config search and must exist.
func Load(path string) (*Config, error) {
	v, sources, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := FromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	return cfg, nil
}

// NewViper builds a viper instance with defaults, config files and
// environment binding in place, so callers can bind flags before
// unmarshalling. It returns the config files merged.
func NewViper(path string) (*viper.Viper, []string, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	var candidates []string
	if user := userConfigPath(); user != "" {
		candidates = append(candidates, user)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, errors.WithHint(
				errors.Wrapf(err, "config file %s", path),
				"check the --config path")
		}
		candidates = append(candidates, path)
	} else if project := findProjectConfig(); project != "" {
		candidates = append(candidates, project)
	}

	var merged []string
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := mergeFile(v, p); err != nil {
			return nil, nil, err
		}
		merged = append(merged, p)
	}

	logger.Logger.Debugw("Configuration sources", "files", merged)
	return v, merged, nil
}

// FromViper unmarshals and validates v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeFile layers one TOML file over v. MergeConfigMap keeps environment
// variables and bound flags above file values.
func mergeFile(v *viper.Viper, path string) error {
	f := viper.New()
	f.SetConfigFile(path)
	f.SetConfigType("toml")
	if err := f.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := v.MergeConfigMap(f.AllSettings()); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	return nil
}

// userConfigPath returns the per-user config file location, or "" when
// no config directory is known.
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sketch2asy", FileName)
}

// findProjectConfig walks up from the working directory looking for
// FileName. It returns "" when none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
