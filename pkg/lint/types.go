package lint

import (
	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/token"
)

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string         `json:"rule_id"`
	Severity core.Severity  `json:"severity"`
	Message  string         `json:"message"`
	FilePath string         `json:"file,omitempty"`
	Pos      token.Position `json:"pos"`
	EndPos   token.Position `json:"end_pos"` // Optional: end of the offending name
}

// =============================================================================
// Host Capabilities
// =============================================================================

// ReflectionProvider is the host's class lookup capability.
type ReflectionProvider interface {
	// HasClass reports whether name is a known class.
	HasClass(name string) bool

	// DefiningFile returns the file that defines name. ok is false for
	// classes without a file (built-ins) and unknown classes.
	DefiningFile(name string) (file string, ok bool)
}

// MembershipClassifier decides whether a class definition file belongs to
// the project or one of its declared dependencies.
type MembershipClassifier interface {
	IsPrimary(path string) bool
}

// Scope is the per-file context handed to node rules.
type Scope struct {
	// File is the path of the file being analyzed.
	File string

	Reflection ReflectionProvider
	Membership MembershipClassifier
}
