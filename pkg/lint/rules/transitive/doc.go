// Package transitive reports classes referenced from code that are defined in
// a package the project does not declare in composer.json.
//
// A class pulled in only because another dependency requires it can vanish
// or change major version whenever that dependency is updated. The rule asks
// the project to declare such packages itself.
package transitive
