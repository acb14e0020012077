// Package php extracts the class-reference nodes a lint rule inspects from PHP
// source: use statements and class names resolved to their fully qualified form.
package php

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/notransitive/pkg/token"
)

// ErrNoCGO is returned when PHP parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("php parsing requires CGO (tree-sitter)")

// NodeKind identifies the syntax node type.
type NodeKind int

// Node kinds produced by the parser.
const (
	KindUseStatement NodeKind = iota
	KindFullyQualifiedName
)

// String returns the node kind name.
func (k NodeKind) String() string {
	switch k {
	case KindUseStatement:
		return "use"
	case KindFullyQualifiedName:
		return "fully_qualified_name"
	default:
		return "unknown"
	}
}

// Node is a syntax node that references one or more classes.
type Node interface {
	Kind() NodeKind
	Span() token.Span
}

// UseKind distinguishes class, function, and constant imports.
type UseKind int

// Import kinds.
const (
	UseClass UseKind = iota
	UseFunction
	UseConstant
)

// ImportedName is one name listed in a use statement.
type ImportedName struct {
	Name  string // fully qualified, without the leading backslash
	Alias string // empty when no "as" clause is present
	Kind  UseKind
	Pos   token.Span
}

// UseStatement is `use A\B;`, `use A\B, C\D as E;` or `use A\{B, C};`.
// Group prefixes are already expanded into Names.
type UseStatement struct {
	Names []ImportedName
	Pos   token.Span
}

// Kind implements Node.
func (*UseStatement) Kind() NodeKind { return KindUseStatement }

// Span implements Node.
func (u *UseStatement) Span() token.Span { return u.Pos }

// Classes returns the imported names that refer to classes.
func (u *UseStatement) Classes() []ImportedName {
	var out []ImportedName
	for _, n := range u.Names {
		if n.Kind == UseClass {
			out = append(out, n)
		}
	}
	return out
}

// FullyQualifiedName is a class reference outside a use statement, resolved
// against the enclosing namespace and imports. `new Bar()` after `use Foo\Bar;`
// yields Foo\Bar with the span of `Bar`.
type FullyQualifiedName struct {
	Name string // without the leading backslash
	Pos  token.Span
}

// Kind implements Node.
func (*FullyQualifiedName) Kind() NodeKind { return KindFullyQualifiedName }

// Span implements Node.
func (f *FullyQualifiedName) Span() token.Span { return f.Pos }

// File is the result of parsing one PHP file.
type File struct {
	Path      string
	Nodes     []Node
	HasErrors bool // the parser recovered from syntax errors
}

// NormalizeName strips surrounding whitespace and the leading backslash.
func NormalizeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), `\`)
}
