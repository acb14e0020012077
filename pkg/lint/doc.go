// Package lint provides the rule framework for checking PHP class references.
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/notransitive/pkg/lint/rules/transitive"
//
// # Host Capabilities
//
// Rules never touch the filesystem directly. The host passes a Scope carrying
// a ReflectionProvider (class lookup) and a MembershipClassifier (is a
// defining file part of the project or a declared dependency).
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("noTransitiveDependency")
//	config.SetSeverity("noTransitiveDependency", core.SeverityWarning)
//
// # Creating Custom Rules
//
// Implement the NodeRule interface or use RuleDef:
//
//	var MyRule = lint.RuleDef{
//		ID:          "myRule",
//		Name:        "custom.my-rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    core.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.RegisterDef(MyRule)
//	}
package lint
