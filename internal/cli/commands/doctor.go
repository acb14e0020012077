package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/notransitive/internal/baseline"
	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/leapstack-labs/notransitive/internal/cli/output"
	"github.com/leapstack-labs/notransitive/pkg/autoload"
	"github.com/leapstack-labs/notransitive/pkg/manifest"
	"github.com/leapstack-labs/notransitive/pkg/php"
	"github.com/spf13/cobra"
)

// Check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the project can be linted",
		Long: `Inspect the Composer metadata and tooling the linter depends on.

The lint rule fails open: without a readable composer.json every class is
treated as a direct dependency and nothing is reported. The doctor command
surfaces that and other setup problems:
- composer.json presence and direct dependencies
- vendor/composer/installed.json and transitive package count
- PHP parser availability
- baseline file

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run setup checks
  notransitive doctor

  # Output as JSON
  notransitive doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks          []HealthCheck `json:"checks"`
	Score           int           `json:"score"`
	Recommendations []string      `json:"recommendations"`
}

// HealthCheck represents a single check result.
type HealthCheck struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Group          string   `json:"group"`
	Status         string   `json:"status"` // "pass", "warn", "error"
	Summary        string   `json:"summary"`
	Details        []string `json:"details,omitempty"`
	Recommendation string   `json:"-"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cc := NewCommandContext(cmd).WithFormat(cmd, opts.Format)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	out := buildDoctorOutput(cmd.Context(), cc.Cfg, cwd)

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return cc.Renderer.JSON(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(cc.Renderer, out)
	default:
		renderDoctorText(cc.Renderer, out)
	}
	return nil
}

func buildDoctorOutput(ctx context.Context, cfg *config.Config, composerRoot string) *DoctorOutput {
	m, manifestErr := manifest.Load(manifest.PathIn(composerRoot))

	checks := []HealthCheck{
		checkConfigFile(),
		checkManifest(composerRoot, m, manifestErr),
		checkInstalled(composerRoot, m),
		checkParser(ctx),
		checkBaseline(cfg),
	}

	sort.SliceStable(checks, func(i, j int) bool {
		return checks[i].Group < checks[j].Group
	})

	var recommendations []string
	for _, c := range checks {
		if c.Status != statusPass && c.Recommendation != "" {
			recommendations = append(recommendations, c.Recommendation)
		}
	}

	return &DoctorOutput{
		Checks:          checks,
		Score:           calculateHealthScore(checks),
		Recommendations: recommendations,
	}
}

func checkConfigFile() HealthCheck {
	c := HealthCheck{ID: "config", Name: "Configuration", Group: "tooling", Status: statusPass}
	if used := config.GetConfigFileUsed(); used != "" {
		c.Summary = "using " + used
	} else {
		c.Summary = "no " + config.ConfigFileName + "; using defaults"
	}
	return c
}

func checkManifest(root string, m *manifest.Manifest, err error) HealthCheck {
	c := HealthCheck{ID: "manifest", Name: "composer.json", Group: "composer"}
	path := manifest.PathIn(root)

	switch {
	case errors.Is(err, os.ErrNotExist):
		c.Status = statusError
		c.Summary = "not found in " + root
		c.Recommendation = "Run notransitive from the directory containing composer.json; without it no class is reported."
	case err != nil:
		c.Status = statusError
		c.Summary = "unreadable: " + err.Error()
		c.Recommendation = "Fix composer.json so it parses as a JSON object."
	default:
		deps := m.PrimaryDependencies()
		c.Summary = fmt.Sprintf("%d direct dependencies in %s", deps.Len(), path)
		c.Status = statusPass
		if deps.Len() == 0 {
			c.Status = statusWarn
			c.Recommendation = "composer.json declares no packages; every vendor class will be reported."
		}
		for _, id := range deps.Sorted() {
			c.Details = append(c.Details, strings.TrimPrefix(id, manifest.MarkerPrefix))
		}
	}
	return c
}

func checkInstalled(root string, m *manifest.Manifest) HealthCheck {
	c := HealthCheck{ID: "installed", Name: "Installed packages", Group: "composer"}

	vendorDir := "vendor"
	if m != nil && m.Config.VendorDir != "" {
		vendorDir = m.Config.VendorDir
	}
	if !filepath.IsAbs(vendorDir) {
		vendorDir = filepath.Join(root, vendorDir)
	}
	path := filepath.Join(vendorDir, "composer", "installed.json")

	pkgs, err := autoload.ReadInstalled(path)
	if err != nil {
		c.Status = statusError
		c.Summary = "cannot read " + path
		c.Recommendation = "Run composer install so vendor/composer/installed.json exists."
		return c
	}

	direct := manifest.NewDependencySet()
	if m != nil {
		direct = m.PrimaryDependencies()
	}
	var transitive []string
	for _, pkg := range pkgs {
		if !direct.Has(manifest.Identifier(pkg.Name)) {
			transitive = append(transitive, pkg.Name)
		}
	}
	sort.Strings(transitive)

	c.Status = statusPass
	c.Summary = fmt.Sprintf("%d installed, %d transitive", len(pkgs), len(transitive))
	c.Details = transitive
	return c
}

func checkParser(ctx context.Context) HealthCheck {
	c := HealthCheck{ID: "parser", Name: "PHP parser", Group: "tooling", Status: statusPass, Summary: "tree-sitter PHP grammar available"}
	if _, err := php.NewParser().ParseSource(ctx, "probe.php", []byte("<?php\n")); err != nil {
		c.Status = statusError
		c.Summary = err.Error()
		if errors.Is(err, php.ErrNoCGO) {
			c.Recommendation = "Rebuild notransitive with CGO_ENABLED=1."
		}
	}
	return c
}

func checkBaseline(cfg *config.Config) HealthCheck {
	c := HealthCheck{ID: "baseline", Name: "Baseline", Group: "project", Status: statusPass}
	path := baselinePath(cfg)

	bl, err := baseline.Load(path)
	switch {
	case err != nil:
		c.Status = statusError
		c.Summary = err.Error()
		c.Recommendation = "Regenerate the baseline with notransitive baseline generate."
	case bl.Len() == 0:
		c.Summary = "no baselined diagnostics"
	default:
		c.Status = statusWarn
		c.Summary = fmt.Sprintf("%d diagnostics suppressed by %s", bl.Len(), path)
		c.Recommendation = "Add the packages recorded in the baseline to composer.json and regenerate it."
	}
	return c
}

// calculateHealthScore computes a score from 0-100. Errors cost twice as
// much as warnings.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, c := range checks {
		switch c.Status {
		case statusError:
			score -= 30
		case statusWarn:
			score -= 15
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("notransitive Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case statusWarn:
			icon = styles.Warning.Render("!")
		case statusError:
			icon = styles.Error.Render("✗")
		}
		r.Printf("   %s %s: %s\n", icon, check.Name, check.Summary)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# notransitive Health Report")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("## " + titleCaser.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **%s** `%s`: %s\n", check.Name, check.Status, check.Summary)
		for _, detail := range check.Details {
			r.Println("  - " + detail)
		}
	}
	r.Println("")
	r.Printf("**Health Score:** %d/100\n", out.Score)

	if len(out.Recommendations) > 0 {
		r.Println("")
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
	}
}
