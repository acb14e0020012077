// Package config provides configuration management for the notransitive CLI.
//
// The lint rule section is shared with pkg/lint and defined in pkg/core;
// it is re-exported here via a type alias for convenience.
package config

import (
	"os"

	"github.com/leapstack-labs/notransitive/pkg/core"
)

// LintConfig is an alias for the shared lint configuration.
// This allows CLI code to use config.LintConfig without importing pkg/core.
type LintConfig = core.LintConfig

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is where notransitive.yaml was found, or the working
	// directory. Paths below are resolved against it.
	ProjectRoot string `koanf:"-"`

	Paths        []string    `koanf:"paths"`
	Exclude      []string    `koanf:"exclude"`
	Workers      int         `koanf:"workers"`
	Baseline     string      `koanf:"baseline"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	Log          LogConfig   `koanf:"log"`
	Lint         *LintConfig `koanf:"lint"`
}

// LogConfig controls the optional rotating log file.
type LogConfig struct {
	File       string `koanf:"file"`
	Level      string `koanf:"level"`
	MaxSize    int    `koanf:"max_size"` // megabytes
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

// Default configuration values.
const (
	ConfigFileName    = "notransitive.yaml"
	EnvPrefix         = "NOTRANSITIVE_"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel   = "info"
	DefaultMaxSize    = 10
	DefaultMaxBackups = 3
	DefaultMaxAge     = 28
)

// GetLintConfig returns the lint section, never nil.
func (c *Config) GetLintConfig() LintConfig {
	if c.Lint == nil {
		return LintConfig{}
	}
	return *c.Lint
}

// Default returns the configuration used when no file, env or flags apply.
func Default() *Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return &Config{
		ProjectRoot:  root,
		Paths:        []string{"."},
		Exclude:      []string{},
		OutputFormat: DefaultOutput,
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSize:    DefaultMaxSize,
			MaxBackups: DefaultMaxBackups,
			MaxAge:     DefaultMaxAge,
			Compress:   true,
		},
	}
}
