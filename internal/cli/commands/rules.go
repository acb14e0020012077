package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/notransitive/internal/cli/output"
	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	_ "github.com/leapstack-labs/notransitive/pkg/lint/rules" // register rules
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Use --verbose to include rationale, or pass a rule ID to see examples
and fix guidance.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  notransitive rules

  # Show details for a specific rule
  notransitive rules noTransitiveDependency

  # List rules in the dependencies group
  notransitive rules --group dependencies

  # Output as JSON
  notransitive rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd).WithFormat(cmd, opts.Format)
			if len(args) > 0 {
				return showRule(cc.Renderer, args[0])
			}
			return listRules(cc.Renderer, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// ruleInfos returns registered rules sorted by group, then ID.
func ruleInfos(group string) []core.RuleInfo {
	var rules []lint.NodeRule
	if group != "" {
		rules = lint.GetByGroup(group)
	} else {
		rules = lint.GetAll()
	}

	infos := make([]core.RuleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, lint.GetRuleInfo(r))
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Group != infos[j].Group {
			return infos[i].Group < infos[j].Group
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

func listRules(r *output.Renderer, opts *RulesOptions) error {
	rules := ruleInfos(opts.Group)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
	case output.ModeMarkdown:
		r.Println("# Lint Rules")
		r.Println("")
		if len(rules) == 0 {
			r.Println("No rules match.")
			return nil
		}
		t := rulesTable(r, rules, opts.Verbose)
		t.RenderMarkdown()
		r.Println("")
		return nil
	default:
		r.Println("")
		r.Println(r.Styles().Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
		r.Println("")
		if len(rules) == 0 {
			r.Muted("No rules match.")
			return nil
		}
		t := rulesTable(r, rules, opts.Verbose)
		t.SetStyle(table.StyleLight)
		t.Render()
		r.Println("")
		r.Muted("Use 'notransitive rules <rule-id>' for detailed documentation")
		return nil
	}
}

func rulesTable(r *output.Renderer, rules []core.RuleInfo, verbose bool) table.Writer {
	titleCaser := cases.Title(language.English)

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	header := table.Row{"ID", "Group", "Name", "Severity", "Description"}
	if verbose {
		header = append(header, "Rationale")
	}
	t.AppendHeader(header)

	for _, rule := range rules {
		row := table.Row{
			rule.ID,
			titleCaser.String(rule.Group),
			rule.Name,
			rule.DefaultSeverity.String(),
			rule.Description,
		}
		if verbose {
			row = append(row, oneLine(rule.Rationale))
		}
		t.AppendRow(row)
	}
	return t
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

func showRule(r *output.Renderer, ruleID string) error {
	rule, ok := lint.GetByID(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := lint.GetRuleInfo(rule)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		showRuleMarkdown(r, info)
	default:
		showRuleText(r, info)
	}
	return nil
}

func showRuleText(r *output.Renderer, rule core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}
}

func showRuleMarkdown(r *output.Renderer, rule core.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", rule.Group, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	sections := []struct {
		title, body string
		code        bool
	}{
		{"Why This Matters", rule.Rationale, false},
		{"Bad Example", rule.BadExample, true},
		{"Good Example", rule.GoodExample, true},
		{"How to Fix", rule.Fix, false},
	}
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		r.Println("## " + s.title)
		r.Println("")
		if s.code {
			r.Println("```php")
			r.Println(s.body)
			r.Println("```")
		} else {
			r.Println(s.body)
		}
		r.Println("")
	}
}

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
