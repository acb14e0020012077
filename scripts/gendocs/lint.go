package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/notransitive/pkg/lint"
	_ "github.com/leapstack-labs/notransitive/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"dependencies": "Rules about which Composer packages the code may depend on.",
}

// generateLintDocs generates the rule reference.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.GetAll()
	grouped := groupRulesByGroup(rules)

	w := NewMarkdownWriter()
	w.Frontmatter("Lint Rules", "Rule reference for notransitive")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")
	w.Paragraph(fmt.Sprintf("notransitive ships %d rule(s) in %d group(s).", len(rules), len(grouped)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	groups := make([]string, 0, len(grouped))
	for g := range grouped {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	titleCaser := cases.Title(language.English)
	for _, group := range groups {
		w.Line(fmt.Sprintf("## %s {#%s}", titleCaser.String(group), group))
		w.Newline()

		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		for _, rule := range grouped[group] {
			writeRuleDoc(w, rule)
		}
	}

	log.Printf("  Generated index.md")
	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// groupRulesByGroup organizes rules by their Group field, sorted by ID.
func groupRulesByGroup(rules []lint.NodeRule) map[string][]lint.NodeRule {
	grouped := make(map[string][]lint.NodeRule)
	for _, r := range rules {
		grouped[r.Group()] = append(grouped[r.Group()], r)
	}
	for group := range grouped {
		sort.Slice(grouped[group], func(i, j int) bool {
			return grouped[group][i].ID() < grouped[group][j].ID()
		})
	}
	return grouped
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.Rule) {
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID(), rule.Name(), rule.ID()))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(rule.DefaultSeverity().String())))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description()))

	if rationale := rule.Rationale(); rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rationale))
	}

	if badExample := rule.BadExample(); badExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("php", badExample)
	}

	if goodExample := rule.GoodExample(); goodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("php", goodExample)
	}

	if fix := rule.Fix(); fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(strings.TrimSpace(fix))
	}

	w.Line("---")
	w.Newline()
}
