// Package core defines the types shared by the lint engine, its rules and
// the CLI: diagnostic severities, rule metadata and the lint section of the
// configuration file.
//
// The rule: pkg/core imports only the standard library. Everything else
// depends on core, not the reverse.
package core
