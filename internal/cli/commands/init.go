package commands

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/spf13/cobra"
)

//go:embed templates/notransitive.yaml
var configTemplate []byte

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a notransitive.yaml configuration file",
		Long: `Write a commented notransitive.yaml with the default settings.

The directory should be the one holding composer.json.`,
		Example: `  # Initialize in current directory
  notransitive init

  # Overwrite an existing config
  notransitive init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc := NewCommandContext(cmd)
			r := cc.Renderer

			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}

			path := filepath.Join(dir, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists. Use --force to overwrite", path)
			}
			if err := os.WriteFile(path, configTemplate, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			r.Success("Created " + path)
			if _, err := os.Stat(filepath.Join(dir, "composer.json")); err != nil {
				r.Warning("no composer.json next to the config; run notransitive from the Composer project root")
			}
			r.Println("")
			r.Println("Next steps:")
			r.Println("  1. Adjust paths and exclude in " + config.ConfigFileName)
			r.Println("  2. Run 'notransitive doctor' to check Composer metadata")
			r.Println("  3. Run 'notransitive lint'")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}
