package config

import (
	"fmt"

	"github.com/leapstack-labs/notransitive/pkg/core"
)

var validOutputs = map[string]bool{"": true, "auto": true, "text": true, "markdown": true, "json": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if !validOutputs[c.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	if c.Lint != nil {
		for id, name := range c.Lint.Severity {
			if _, ok := core.ParseSeverity(name); !ok {
				return fmt.Errorf("lint.severity.%s: unknown severity %q", id, name)
			}
		}
	}
	return nil
}
