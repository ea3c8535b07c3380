// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// GlobalConfig represents the top-level configuration.
// Maps to the `nomgen:` root key in YAML.
type GlobalConfig struct {
	OutputDir string        `mapstructure:"output_dir"`
	Protocols []string      `mapstructure:"protocols"` // Built-in protocols to generate; empty = all
	Schemas   []string      `mapstructure:"schemas"`   // Schema documents (.yaml/.yml/.toml)
	Workers   int           `mapstructure:"workers"`   // 0 = GOMAXPROCS
	RuleArgs  RuleArgConfig `mapstructure:"rule_args"`
	Log       LogConfig     `mapstructure:"log"`
}

// RuleArgConfig controls emission of reduced rule-argument parsers.
type RuleArgConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`  // MB
	MaxAgeDays int  `mapstructure:"max_age_days"` // Days
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `nomgen: ...`.
type configRoot struct {
	Nomgen GlobalConfig `mapstructure:"nomgen"`
}

// Load loads configuration from file. An empty path yields the defaults,
// still subject to environment overrides.
// The YAML file uses `nomgen:` as root key; env vars use NOMGEN_ prefix (e.g., NOMGEN_OUTPUT_DIR).
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The `nomgen.` key prefix maps to `NOMGEN_` in env vars via the key replacer
	// (e.g., key "nomgen.log.level" → env "NOMGEN_LOG_LEVEL").
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Nomgen

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use "nomgen." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("nomgen.output_dir", "generated")
	v.SetDefault("nomgen.workers", 0)
	v.SetDefault("nomgen.rule_args.enabled", false)

	// Log defaults
	v.SetDefault("nomgen.log.level", "info")
	v.SetDefault("nomgen.log.format", "text")
	v.SetDefault("nomgen.log.outputs.file.enabled", false)
	v.SetDefault("nomgen.log.outputs.file.path", "nomgen.log")
	v.SetDefault("nomgen.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("nomgen.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("nomgen.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("nomgen.log.outputs.file.rotation.compress", true)
}

// ValidateAndApplyDefaults validates configuration and applies runtime defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}
	if cfg.Log.Outputs.File.Enabled && cfg.Log.Outputs.File.Path == "" {
		return fmt.Errorf("log.outputs.file.path is required when log.outputs.file.enabled=true")
	}

	// ── Generation ──
	if cfg.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be >= 0)", cfg.Workers)
	}

	seen := make(map[string]bool, len(cfg.Protocols))
	protocols := cfg.Protocols[:0]
	for _, p := range cfg.Protocols {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		protocols = append(protocols, p)
	}
	cfg.Protocols = protocols

	return nil
}
