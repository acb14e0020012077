package commands

import (
	"fmt"

	"github.com/leapstack-labs/notransitive/internal/baseline"
	"github.com/leapstack-labs/notransitive/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewBaselineCommand creates the baseline command group.
func NewBaselineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Record existing diagnostics so only new ones fail",
		Long: `Manage the baseline file.

A baseline records the diagnostics present today. Later lint runs suppress
up to the recorded number of matching diagnostics per file, rule and
message, so only new violations are reported.`,
	}
	cmd.AddCommand(newBaselineGenerateCommand())
	cmd.AddCommand(newBaselineShowCommand())
	return cmd
}

func newBaselineGenerateCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Write current diagnostics to the baseline file",
		Example: `  # Record every current diagnostic
  notransitive baseline generate

  # Write to a custom location
  notransitive baseline generate --file build/baseline.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			if file == "" {
				file = baselinePath(cc.Cfg)
			}

			l, err := newLinter(cc, &LintOptions{}, args)
			if err != nil {
				return err
			}

			result, err := l.scanner.Scan(cmd.Context(), l.opts)
			if err != nil {
				return err
			}

			bl := baseline.FromDiagnostics(result.Diagnostics(), l.root)
			if err := bl.Save(file); err != nil {
				return err
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(map[string]any{"path": file, "diagnostics": bl.Len(), "entries": len(bl.Entries)})
			}
			cc.Renderer.Success(fmt.Sprintf("Recorded %d diagnostics in %s", bl.Len(), file))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Baseline file (default: baseline from config or notransitive-baseline.yaml)")
	return cmd
}

func newBaselineShowCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Summarize the baseline file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			if file == "" {
				file = baselinePath(cc.Cfg)
			}

			bl, err := baseline.Load(file)
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(bl)
			}
			if len(bl.Entries) == 0 {
				r.Muted("Baseline " + file + " is empty")
				return nil
			}

			r.Header(fmt.Sprintf("Baseline (%d diagnostics)", bl.Len()))
			current := ""
			for _, e := range bl.Entries {
				if e.Path != current {
					current = e.Path
					r.Println(r.Styles().FilePath.Render(e.Path))
				}
				r.Printf("  %dx %s  %s\n", e.Count, r.Styles().Bold.Render(e.Rule), e.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Baseline file (default: baseline from config or notransitive-baseline.yaml)")
	return cmd
}
