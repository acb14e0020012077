package lint

import (
	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/php"
)

// Rule is the base interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "noTransitiveDependency"
	ID() string

	// Name returns the human-readable name, e.g., "dependencies.no-transitive"
	Name() string

	// Group returns the category, e.g., "dependencies"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// Documentation methods for richer rule documentation
	Rationale() string   // Why this rule exists, what problems it prevents
	BadExample() string  // Code showing the anti-pattern
	GoodExample() string // Code showing the correct pattern
	Fix() string         // How to fix violations (when not obvious)
}

// NodeRule analyzes individual syntax nodes of a PHP file.
type NodeRule interface {
	Rule

	// CheckNode analyzes a node and returns diagnostics. Rules ignore node
	// kinds they do not handle.
	CheckNode(node php.Node, scope Scope) []Diagnostic
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		Rationale:       r.Rationale(),
		BadExample:      r.BadExample(),
		GoodExample:     r.GoodExample(),
		Fix:             r.Fix(),
	}
}

// =============================================================================
// Rule Definitions
// =============================================================================

// CheckFunc analyzes a node and returns diagnostics.
type CheckFunc func(node php.Node, scope Scope) []Diagnostic

// RuleDef is a data-driven rule definition. Rules are stateless; all
// context comes via the Check function parameters.
type RuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    core.Severity
	Check       CheckFunc

	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// wrappedRuleDef wraps a RuleDef to implement NodeRule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the NodeRule interface.
func WrapRuleDef(def RuleDef) NodeRule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                     { return w.def.ID }
func (w *wrappedRuleDef) Name() string                   { return w.def.Name }
func (w *wrappedRuleDef) Group() string                  { return w.def.Group }
func (w *wrappedRuleDef) Description() string            { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() core.Severity { return w.def.Severity }
func (w *wrappedRuleDef) Rationale() string              { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string             { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string            { return w.def.GoodExample }
func (w *wrappedRuleDef) Fix() string                    { return w.def.Fix }

func (w *wrappedRuleDef) CheckNode(node php.Node, scope Scope) []Diagnostic {
	if w.def.Check == nil {
		return nil
	}
	return w.def.Check(node, scope)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
