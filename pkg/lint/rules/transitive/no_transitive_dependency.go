package transitive

import (
	"fmt"

	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	"github.com/leapstack-labs/notransitive/pkg/php"
	"github.com/leapstack-labs/notransitive/pkg/token"
)

// RuleID is the identifier attached to every diagnostic of this rule.
const RuleID = "noTransitiveDependency"

const defaultSeverity = core.SeverityError

const messageFormat = "Using class %s (defined in %s) from a transitive dependency is not allowed."

func init() {
	lint.RegisterDef(NoTransitiveDependency)
}

// NoTransitiveDependency flags classes defined in packages that are only
// installed as dependencies of dependencies.
var NoTransitiveDependency = lint.RuleDef{
	ID:          RuleID,
	Name:        "dependencies.no_transitive",
	Group:       "dependencies",
	Description: "Classes must come from the project or from a package declared in composer.json.",
	Severity:    defaultSeverity,
	Check:       checkNoTransitiveDependency,

	Rationale: `A package installed only because another dependency requires it is outside the
project's control. Its version is chosen by the dependency's constraints and it can disappear
when that dependency is updated. Code that uses its classes breaks without any change to
composer.json.`,

	BadExample: `// composer.json requires only "foo/bar", which pulls in "other/package".
use Other\Package\ClassB;`,

	GoodExample: `// composer.json requires both "foo/bar" and "other/package".
use Other\Package\ClassB;`,

	Fix: "Add the package that defines the class to require or require-dev in composer.json.",
}

func checkNoTransitiveDependency(node php.Node, scope lint.Scope) []lint.Diagnostic {
	if scope.Reflection == nil || scope.Membership == nil {
		return nil
	}

	switch n := node.(type) {
	case *php.UseStatement:
		var diagnostics []lint.Diagnostic
		for _, name := range n.Classes() {
			if d, ok := checkClass(name.Name, name.Pos, scope); ok {
				diagnostics = append(diagnostics, d)
			}
		}
		return diagnostics
	case *php.FullyQualifiedName:
		if d, ok := checkClass(n.Name, n.Pos, scope); ok {
			return []lint.Diagnostic{d}
		}
	}
	return nil
}

func checkClass(name string, span token.Span, scope lint.Scope) (lint.Diagnostic, bool) {
	class := php.NormalizeName(name)
	if class == "" || !scope.Reflection.HasClass(class) {
		return lint.Diagnostic{}, false
	}

	file, ok := scope.Reflection.DefiningFile(class)
	if !ok || scope.Membership.IsPrimary(file) {
		return lint.Diagnostic{}, false
	}

	return lint.Diagnostic{
		RuleID:   RuleID,
		Severity: defaultSeverity,
		Message:  fmt.Sprintf(messageFormat, class, file),
		FilePath: scope.File,
		Pos:      span.Start,
		EndPos:   span.End,
	}, true
}
