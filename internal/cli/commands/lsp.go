package commands

import (
	"github.com/leapstack-labs/notransitive/internal/lsp"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Long: `Start a Language Server Protocol server over stdin and stdout.

Open PHP documents are analyzed on every change and the transitive
dependency diagnostics are published to the editor. Saving composer.json,
composer.lock or vendor/composer/installed.json reloads the dependency
metadata. The lint section of the configuration file applies; logs go to
stderr or the configured log file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			lintCfg, err := buildLintConfig(cc.Cfg, &LintOptions{})
			if err != nil {
				return err
			}

			srv := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(),
				lsp.WithLogger(cc.Logger),
				lsp.WithLintConfig(lintCfg),
				lsp.WithRoot(cc.Cfg.ProjectRoot),
				lsp.WithVersion(version),
			)
			return srv.Run(cmd.Context())
		},
	}
}
