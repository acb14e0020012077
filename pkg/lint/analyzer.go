package lint

import (
	"github.com/leapstack-labs/notransitive/pkg/php"
)

// Analyzer runs registered node rules against parsed PHP files.
type Analyzer struct {
	config *Config
	rules  []NodeRule
}

// NewAnalyzer creates a new analyzer over the registered rules.
func NewAnalyzer(config *Config) *Analyzer {
	return NewAnalyzerWithRules(config, GetAll())
}

// NewAnalyzerWithRules creates an analyzer over an explicit rule set.
func NewAnalyzerWithRules(config *Config, rules []NodeRule) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	enabled := make([]NodeRule, 0, len(rules))
	for _, rule := range rules {
		if config.IsDisabled(rule.ID()) {
			continue
		}
		enabled = append(enabled, rule)
	}
	return &Analyzer{config: config, rules: enabled}
}

// Rules returns the enabled rules.
func (a *Analyzer) Rules() []NodeRule {
	return a.rules
}

// AnalyzeNode runs every enabled rule against one node.
func (a *Analyzer) AnalyzeNode(node php.Node, scope Scope) []Diagnostic {
	if node == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range a.rules {
		diags := rule.CheckNode(node, scope)

		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID(), diags[i].Severity)
			if diags[i].FilePath == "" {
				diags[i].FilePath = scope.File
			}
		}

		diagnostics = append(diagnostics, diags...)
	}
	return diagnostics
}

// AnalyzeFile runs analysis on every node of a parsed file.
func (a *Analyzer) AnalyzeFile(file *php.File, scope Scope) []Diagnostic {
	if file == nil {
		return nil
	}
	if scope.File == "" {
		scope.File = file.Path
	}

	var diagnostics []Diagnostic
	for _, node := range file.Nodes {
		diagnostics = append(diagnostics, a.AnalyzeNode(node, scope)...)
	}
	return diagnostics
}
