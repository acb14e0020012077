// Package classify decides whether a class definition file belongs to a
// package the project declares directly in composer.json.
//
// The decision is a path heuristic, not dependency-graph membership. A path
// is treated as third-party only when it contains Sentinel, the
// "vendor/composer/.." segment Composer's autoloader produces. The two path
// segments that follow it name the package. Layouts that do not fit this
// shape (custom vendor-dir, symlinked path repositories, classmap-only
// packages outside vendor) are classified as primary. Every unparseable
// case resolves to primary: a missed violation is preferred over a false one.
package classify
