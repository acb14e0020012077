// Package rules bundles the lint rule implementations.
//
// Rules are organized by category:
//   - transitive: Rules about which Composer packages a project may reference directly
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/notransitive/pkg/lint/rules"
package rules
