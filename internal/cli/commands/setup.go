package commands

import (
	"log/slog"

	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/leapstack-labs/notransitive/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer stored on the
// command's context by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// WithFormat replaces the renderer when a per-command --format flag is set.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) *CommandContext {
	if format != "" {
		c.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
	}
	return c
}
