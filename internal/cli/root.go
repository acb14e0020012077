// Package cli provides the command-line interface for notransitive.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/notransitive/internal/cli/commands"
	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile   string
		logCloser io.Closer
	)

	rootCmd := &cobra.Command{
		Use:   "notransitive",
		Short: "notransitive - flag classes from transitive Composer dependencies",
		Long: `notransitive reports PHP code that uses classes from packages the
project does not require directly.

A class imported with "use" or written as a fully qualified name is looked
up through Composer's autoload metadata. When its file belongs to an
installed package missing from composer.json's require and require-dev
sections, the reference is reported. Declare the package explicitly and
the diagnostic goes away.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, closer := newLogger(cfg, cmd.ErrOrStderr())
			logCloser = closer

			ctx := context.WithValue(cmd.Context(), config.ConfigKey(), cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			logger.Debug("configuration loaded",
				"root", cfg.ProjectRoot,
				"paths", cfg.Paths,
				"workers", cfg.Workers,
				"output", cfg.OutputFormat)

			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
commit %s, built %s
`, GitCommit, BuildDate))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./notransitive.yaml, searched upward)")
	rootCmd.PersistentFlags().StringSlice("paths", nil, "Files or directories to scan")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Doublestar patterns to skip")
	rootCmd.PersistentFlags().Int("workers", 0, "Parallel parsers (0 = number of CPUs)")
	rootCmd.PersistentFlags().String("baseline", "", "Baseline file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotating file")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewLintCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewBaselineCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewLSPCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for notransitive.

To load completions:

Bash:
  $ source <(notransitive completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ notransitive completion zsh > "${fpath[1]}/_notransitive"

Fish:
  $ notransitive completion fish | source

PowerShell:
  PS> notransitive completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
