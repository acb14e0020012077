package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/leapstack-labs/notransitive/internal/baseline"
	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/leapstack-labs/notransitive/internal/cli/output"
	"github.com/leapstack-labs/notransitive/internal/scan"
	"github.com/leapstack-labs/notransitive/internal/watch"
	"github.com/leapstack-labs/notransitive/pkg/autoload"
	"github.com/leapstack-labs/notransitive/pkg/classify"
	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	_ "github.com/leapstack-labs/notransitive/pkg/lint/rules" // register rules
	"github.com/spf13/cobra"
)

// ErrLintIssues is returned when diagnostics remain after filtering, so the
// process exits non-zero.
var ErrLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format     string   // Output format: text, markdown, json
	Disable    []string // Rule IDs to disable
	Severity   string   // Minimum severity: error, warning, info, hint
	Rules      []string // Run only specific rules
	NoBaseline bool     // Report baselined diagnostics too
	Watch      bool     // Re-lint on file changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Report classes used from transitive Composer dependencies",
		Long: `Analyze PHP sources for classes that come from packages the project
does not require directly in composer.json.

Imports and fully qualified names are resolved through Composer's autoload
metadata. A class is reported when it lives in an installed package that is
not listed under "require" or "require-dev".

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the configured paths
  notransitive lint

  # Lint specific paths
  notransitive lint src/ tests/Unit

  # Output as JSON
  notransitive lint --format json

  # Ignore the baseline file
  notransitive lint --no-baseline

  # Re-lint whenever a PHP file changes
  notransitive lint --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVar(&opts.NoBaseline, "no-baseline", false, "Report diagnostics recorded in the baseline")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch for changes and re-lint")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cc := NewCommandContext(cmd).WithFormat(cmd, opts.Format)

	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q (must be error, warning, info, hint)", opts.Severity)
	}

	l, err := newLinter(cc, opts, args)
	if err != nil {
		return err
	}
	l.threshold = threshold

	if !opts.NoBaseline {
		bl, err := baseline.Load(baselinePath(cc.Cfg))
		if err != nil {
			return err
		}
		l.baseline = bl
	}

	if opts.Watch {
		return l.watch(cmd.Context(), cc.Renderer)
	}

	report, err := l.run(cmd.Context())
	if err != nil {
		return err
	}
	if renderLintReport(cc.Renderer, report) {
		return ErrLintIssues
	}
	return nil
}

// buildLintConfig merges project config with CLI flags; flags win.
func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	lintCfg := lint.NewConfig()
	if cfg != nil {
		var err error
		if lintCfg, err = lint.FromLintConfig(cfg.GetLintConfig()); err != nil {
			return nil, err
		}
	}

	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// --rule restricts the run to the named rules
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool, len(opts.Rules))
		for _, id := range opts.Rules {
			enabled[strings.TrimSpace(id)] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabled[rule.ID()] {
				lintCfg.Disable(rule.ID())
			}
		}
	}

	return lintCfg, nil
}

func baselinePath(cfg *config.Config) string {
	if cfg.Baseline != "" {
		return cfg.Baseline
	}
	return filepath.Join(cfg.ProjectRoot, baseline.DefaultFileName)
}

// scanOptions builds scan options from config, with positional arguments
// replacing the configured paths.
func scanOptions(cfg *config.Config, args []string) (scan.Options, error) {
	opts := scan.Options{
		Root:    cfg.ProjectRoot,
		Paths:   cfg.Paths,
		Exclude: cfg.Exclude,
		Workers: cfg.Workers,
	}
	if len(args) > 0 {
		opts.Paths = make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return scan.Options{}, fmt.Errorf("resolve %s: %w", arg, err)
			}
			opts.Paths = append(opts.Paths, abs)
		}
	}
	return opts, nil
}

// linter ties the scanner to one set of options so watch mode can re-run
// it without reloading Composer metadata.
type linter struct {
	scanner   *scan.Scanner
	root      string // directory Composer metadata was loaded from
	opts      scan.Options
	baseline  *baseline.Baseline
	threshold core.Severity
	cc        *CommandContext
}

func newLinter(cc *CommandContext, opts *LintOptions, args []string) (*linter, error) {
	lintCfg, err := buildLintConfig(cc.Cfg, opts)
	if err != nil {
		return nil, err
	}
	scanOpts, err := scanOptions(cc.Cfg, args)
	if err != nil {
		return nil, err
	}

	// Composer metadata is read from the directory the tool was started in.
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	index := autoload.Load(cwd, autoload.WithLogger(cc.Logger))
	classifier := classify.NewForWorkingDir(classify.WithLogger(cc.Logger))

	cc.Logger.Debug("lint configured",
		"root", scanOpts.Root,
		"paths", scanOpts.Paths,
		"packages", len(index.Packages()),
		"manifest", classifier.Cache().ManifestPath())

	return &linter{
		scanner:   scan.New(lint.NewAnalyzer(lintCfg), index, classifier, cc.Logger),
		root:      cwd,
		opts:      scanOpts,
		threshold: core.SeverityWarning,
		cc:        cc,
	}, nil
}

// lintReport is a filtered scan result ready for rendering.
type lintReport struct {
	Files        []scan.FileResult // files with remaining diagnostics, sorted by path
	Errors       []scan.FileError
	FilesScanned int
	Baselined    int
}

func (l *linter) run(ctx context.Context) (*lintReport, error) {
	result, err := l.scanner.Scan(ctx, l.opts)
	if err != nil {
		return nil, err
	}
	return l.report(result.Files, result.Errors), nil
}

func (l *linter) report(files []scan.FileResult, errs []scan.FileError) *lintReport {
	var diags []lint.Diagnostic
	for _, f := range files {
		for _, d := range f.Diagnostics {
			if d.Severity <= l.threshold {
				diags = append(diags, d)
			}
		}
	}

	kept, suppressed := l.baseline.Filter(diags, l.root)

	byFile := make(map[string][]lint.Diagnostic)
	for _, d := range kept {
		byFile[d.FilePath] = append(byFile[d.FilePath], d)
	}

	report := &lintReport{
		Errors:       errs,
		FilesScanned: len(files),
		Baselined:    suppressed,
	}
	for path, ds := range byFile {
		report.Files = append(report.Files, scan.FileResult{Path: path, Diagnostics: ds})
	}
	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})
	return report
}

// inScope reports whether a root-relative file falls under the scanned paths.
func (l *linter) inScope(rel string) bool {
	for _, p := range l.opts.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(l.opts.Root, p)
		}
		prefix, err := filepath.Rel(l.opts.Root, p)
		if err != nil {
			continue
		}
		prefix = filepath.ToSlash(prefix)
		if prefix == "." || rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

func (l *linter) watch(ctx context.Context, r *output.Renderer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := l.scanner.Scan(ctx, l.opts)
	if err != nil {
		return err
	}
	files := make(map[string]scan.FileResult, len(result.Files))
	for _, f := range result.Files {
		files[f.Path] = f
	}
	renderLintReport(r, l.report(result.Files, result.Errors))

	w, err := watch.New(watch.Options{
		Root:    l.opts.Root,
		Exclude: l.opts.Exclude,
		Logger:  l.cc.Logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	r.Muted("Watching for changes (Ctrl+C to stop)")

	err = w.Run(ctx, func(ctx context.Context, changed []string) {
		var rescan []string
		for _, rel := range changed {
			if !l.inScope(rel) {
				continue
			}
			if _, err := os.Stat(filepath.Join(l.opts.Root, filepath.FromSlash(rel))); err != nil {
				delete(files, rel)
				continue
			}
			rescan = append(rescan, rel)
		}

		res, err := l.scanner.ScanFiles(ctx, l.opts, rescan)
		if err != nil {
			if ctx.Err() == nil {
				r.Warning(err.Error())
			}
			return
		}
		for _, f := range res.Files {
			files[f.Path] = f
		}

		all := make([]scan.FileResult, 0, len(files))
		for _, f := range files {
			all = append(all, f)
		}
		r.Println("")
		r.Muted(fmt.Sprintf("Re-linted %d changed files", len(rescan)))
		renderLintReport(r, l.report(all, res.Errors))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// renderLintReport writes the report and reports whether issues remain.
func renderLintReport(r *output.Renderer, report *lintReport) bool {
	summary := output.LintSummary{
		FilesScanned:    report.FilesScanned,
		FilesWithIssues: len(report.Files),
		Baselined:       report.Baselined,
	}
	for _, f := range report.Files {
		summary.TotalIssues += len(f.Diagnostics)
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case core.SeverityError:
				summary.Errors++
			case core.SeverityWarning:
				summary.Warnings++
			case core.SeverityInfo:
				summary.Info++
			case core.SeverityHint:
				summary.Hints++
			}
		}
	}
	hasIssues := summary.TotalIssues > 0

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := output.LintOutput{Summary: summary, Files: []output.LintFileResult{}}
		for _, f := range report.Files {
			fileResult := output.LintFileResult{Path: f.Path}
			for _, d := range f.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:    d.RuleID,
					Severity:  d.Severity.String(),
					Message:   d.Message,
					Line:      d.Pos.Line,
					Column:    d.Pos.Column,
					EndLine:   d.EndPos.Line,
					EndColumn: d.EndPos.Column,
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		for _, e := range report.Errors {
			jsonOutput.Errors = append(jsonOutput.Errors, output.LintFileError{Path: e.Path, Message: e.Message})
		}
		_ = r.JSON(jsonOutput)
		return hasIssues
	}

	for _, e := range report.Errors {
		r.Warning(fmt.Sprintf("%s: %s", e.Path, e.Message))
	}

	if !hasIssues {
		msg := fmt.Sprintf("No lint issues found in %d files", summary.FilesScanned)
		if summary.Baselined > 0 {
			msg += fmt.Sprintf(" (%d baselined)", summary.Baselined)
		}
		r.Success(msg)
		return false
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	styles := r.Styles()
	for _, f := range report.Files {
		if markdown {
			r.Println("## " + f.Path)
			r.Println("")
		} else {
			r.Println(styles.FilePath.Render(f.Path))
		}
		for _, d := range f.Diagnostics {
			loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			if markdown {
				r.Printf("- `%s` **%s** %s: %s\n", loc, d.Severity, d.RuleID, d.Message)
				continue
			}
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityLabel(styles, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	parts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", summary.Hints))
	}
	line := fmt.Sprintf("Summary: %s in %d of %d files", strings.Join(parts, ", "), summary.FilesWithIssues, summary.FilesScanned)
	if summary.Baselined > 0 {
		line += fmt.Sprintf(" (%d baselined)", summary.Baselined)
	}
	r.Println(line)

	return true
}

func severityLabel(styles *output.Styles, sev core.Severity) string {
	label := fmt.Sprintf("%-7s", sev.String())
	switch sev {
	case core.SeverityError:
		return styles.Error.Render(label)
	case core.SeverityWarning:
		return styles.Warning.Render(label)
	case core.SeverityInfo:
		return styles.Info.Render(label)
	default:
		return styles.Muted.Render(label)
	}
}
