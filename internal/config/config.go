// Package config holds the asmscope configuration, loaded from
// .asmscope.yaml with flag and environment overrides.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the complete asmscope configuration.
type Config struct {
	// CompileCommands is the path to the build's compile_commands.json.
	CompileCommands string `yaml:"compile_commands" mapstructure:"compile_commands"`
	// Match selects translation units by glob over their output paths.
	// Empty means every entry in the database.
	Match []string `yaml:"match" mapstructure:"match"`
	// DataDir is where the snapshot is written. Default ".asmscope".
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// KeepAsm leaves the generated assembly listings on disk after parsing.
	KeepAsm bool `yaml:"keep_asm" mapstructure:"keep_asm"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		CompileCommands: "compile_commands.json",
		DataDir:         ".asmscope",
	}
}

// FromViper builds a Config from the given viper instance, applying defaults
// for unset values.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if cfg.CompileCommands == "" {
		cfg.CompileCommands = "compile_commands.json"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = ".asmscope"
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.CompileCommands == "" {
		return fmt.Errorf("compile_commands must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}
