// Package manifest reads a project's composer.json and derives the set of
// packages the project declares directly.
//
// The derived identifiers carry MarkerPrefix so they compare byte-for-byte
// with identifiers the classify package extracts from definition paths.
// Reading is soft-fail: a manifest that is missing, unreadable, or not a JSON
// object yields an empty DependencySet rather than an error.
package manifest
