// Package config loads project configuration for the `ucg` CLI
// collaborator: import roots and the default output converter, from
// `.ucg.yaml`/`.ucg.toml`, `UCG_*` environment variables, and CLI flags, in
// that increasing order of precedence. This is ambient CLI-collaborator
// configuration (spec §6), not part of the core language engine.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds runtime configuration for a `ucg` invocation.
type Config struct {
	ImportRoots      []string `mapstructure:"import_roots" toml:"import_roots"`
	DefaultConverter string   `mapstructure:"default_converter" toml:"default_converter"`
	Verbose          bool     `mapstructure:"verbose" toml:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// value not set by a config file, environment, or flag. The caller is
// expected to have already bound CLI flags into viper (see cmd/ucg).
func Load() (Config, error) {
	v := viper.GetViper()
	v.SetDefault("import_roots", []string{})
	v.SetDefault("default_converter", "")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("UCG")
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName(".ucg")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	// viper looks for `.ucg` with any extension it decodes natively, so a
	// `.ucg.yaml` or a `.ucg.toml` file is read here; no decoder is
	// registered by this package.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeTOML parses TOML project configuration directly with go-toml/v2, for
// callers that want TOML configuration without going through viper's
// file-format dispatch.
func DecodeTOML(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
