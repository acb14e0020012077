package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/notransitive/internal/cli/config"
)

// ConfigField describes one configuration key.
type ConfigField struct {
	Key         string
	Type        string
	Default     string
	Description string
}

// configFields mirrors internal/cli/config Config and its defaults.
func configFields() []ConfigField {
	return []ConfigField{
		{Key: "paths", Type: "[]string", Default: ".", Description: "Files or directories to scan, relative to the config file"},
		{Key: "exclude", Type: "[]string", Description: "Doublestar patterns skipped during discovery; vendor directories are always skipped"},
		{Key: "workers", Type: "int", Default: "0", Description: "Parallel parsers; 0 uses every CPU"},
		{Key: "baseline", Type: "string", Default: "notransitive-baseline.yaml", Description: "Baseline file whose diagnostics are suppressed"},
		{Key: "verbose", Type: "bool", Default: "false", Description: "Debug logging"},
		{Key: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json"},
		{Key: "log.file", Type: "string", Description: "Write logs to this rotating file instead of stderr"},
		{Key: "log.level", Type: "string", Default: config.DefaultLogLevel, Description: "Log file level: debug, info, warn, error"},
		{Key: "log.max_size", Type: "int", Default: fmt.Sprint(config.DefaultMaxSize), Description: "Megabytes before the log file is rotated"},
		{Key: "log.max_backups", Type: "int", Default: fmt.Sprint(config.DefaultMaxBackups), Description: "Rotated log files kept"},
		{Key: "log.max_age", Type: "int", Default: fmt.Sprint(config.DefaultMaxAge), Description: "Days rotated log files are kept"},
		{Key: "log.compress", Type: "bool", Default: "true", Description: "Gzip rotated log files"},
		{Key: "lint.disabled", Type: "[]string", Description: "Rule IDs to disable"},
		{Key: "lint.severity", Type: "map[string]string", Description: "Rule ID to severity override (error, warning, info, hint)"},
	}
}

// envName returns the environment variable for a configuration key.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "notransitive configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("notransitive reads " + InlineCode(config.ConfigFileName) +
		" from the working directory or the file given with " + InlineCode("--config") +
		". Run " + InlineCode("notransitive init") + " to create one.")

	w.Header(2, "Keys")

	headers := []string{"Key", "Type", "Default", "Environment", "Description"}
	var rows [][]string
	for _, f := range configFields() {
		def := "-"
		if f.Default != "" {
			def = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Key), f.Type, def, InlineCode(envName(f.Key)), f.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Command-line flags",
		"Environment variables",
		InlineCode(config.ConfigFileName),
		"Built-in defaults",
	})

	w.Header(2, "Example")
	w.CodeBlock("yaml", `paths:
  - src
exclude:
  - "src/Legacy/**"
baseline: notransitive-baseline.yaml
lint:
  severity:
    noTransitiveDependency: warning`)

	filename := filepath.Join(outDir, "configuration.md")
	log.Printf("  Generated configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
