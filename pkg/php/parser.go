//go:build cgo

package php

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsphp "github.com/smacker/go-tree-sitter/php"

	"github.com/leapstack-labs/notransitive/pkg/token"
)

// Parser wraps tree-sitter's PHP grammar. A Parser is not safe for
// concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new PHP parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tsphp.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ParseSource(ctx, path, source)
}

// ParseSource parses PHP source and collects class-reference nodes in
// source order. Names in class positions are resolved against the current
// namespace and its class imports.
func (p *Parser) ParseSource(ctx context.Context, path string, source []byte) (*File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	file := &File{Path: path, HasErrors: root.HasError()}
	scope := newNameScope("")

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "namespace_definition":
			name := ""
			if nn := n.ChildByFieldName("name"); nn != nil {
				name = NormalizeName(nn.Content(source))
			}
			body := n.ChildByFieldName("body")
			if body == nil {
				// namespace Foo; applies until the next namespace statement.
				scope = newNameScope(name)
				return
			}
			outer := scope
			scope = newNameScope(name)
			walk(body)
			scope = outer
			return
		case "namespace_use_declaration":
			if use := buildUseStatement(n, source); use != nil {
				scope.importAll(use)
				file.Nodes = append(file.Nodes, use)
			}
			// Names inside a use statement are not references on their own.
			return
		case "name", "qualified_name":
			if isClassReference(n) {
				if fq := scope.resolve(n, source); fq != nil {
					file.Nodes = append(file.Nodes, fq)
				}
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	return file, nil
}

// isClassReference reports whether a name node sits where PHP expects a
// class name: new, extends, implements, type declarations, catch, instanceof,
// attributes, trait use and the left side of ::.
func isClassReference(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "object_creation_expression", "base_clause", "class_interface_clause", "named_type", "use_declaration":
		return true
	case "attribute", "class_constant_access_expression":
		first := parent.NamedChild(0)
		return first != nil && first.Equal(n)
	case "scoped_call_expression", "scoped_property_access_expression":
		scope := parent.ChildByFieldName("scope")
		return scope != nil && scope.Equal(n)
	case "binary_expression":
		right := parent.ChildByFieldName("right")
		if right == nil || !right.Equal(n) {
			return false
		}
		for i := 0; i < int(parent.ChildCount()); i++ {
			if parent.Child(i).Type() == "instanceof" {
				return true
			}
		}
	}
	return false
}

func buildUseStatement(n *sitter.Node, source []byte) *UseStatement {
	stmtKind := useKindOf(n, source)
	use := &UseStatement{Pos: spanOf(n)}

	var prefix string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "namespace_use_clause":
			if name, ok := importedName(child, source, "", stmtKind); ok {
				use.Names = append(use.Names, name)
			}
		case "namespace_name":
			prefix = NormalizeName(child.Content(source))
		case "namespace_use_group":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				clause := child.NamedChild(j)
				if clause.Type() != "namespace_use_group_clause" && clause.Type() != "namespace_use_clause" {
					continue
				}
				if name, ok := importedName(clause, source, prefix, stmtKind); ok {
					use.Names = append(use.Names, name)
				}
			}
		}
	}

	if len(use.Names) == 0 {
		return nil
	}
	return use
}

// importedName decodes one clause such as `Foo\Bar as Baz` or, inside a
// group, `function helper`.
func importedName(clause *sitter.Node, source []byte, prefix string, kind UseKind) (ImportedName, bool) {
	text := strings.TrimSpace(clause.Content(source))

	if fields := strings.Fields(text); len(fields) > 1 {
		switch strings.ToLower(fields[0]) {
		case "function":
			kind = UseFunction
			text = strings.TrimSpace(text[len(fields[0]):])
		case "const":
			kind = UseConstant
			text = strings.TrimSpace(text[len(fields[0]):])
		}
	}

	var alias string
	if idx := indexFold(text, " as "); idx >= 0 {
		alias = strings.TrimSpace(text[idx+len(" as "):])
		text = strings.TrimSpace(text[:idx])
	}

	name := NormalizeName(text)
	if name == "" {
		return ImportedName{}, false
	}
	if prefix != "" {
		name = prefix + `\` + name
	}
	return ImportedName{Name: name, Alias: alias, Kind: kind, Pos: spanOf(clause)}, true
}

// useKindOf reads the optional function/const keyword after `use`.
func useKindOf(n *sitter.Node, source []byte) UseKind {
	fields := strings.Fields(n.Content(source))
	if len(fields) < 2 {
		return UseClass
	}
	switch strings.ToLower(fields[1]) {
	case "function":
		return UseFunction
	case "const":
		return UseConstant
	default:
		return UseClass
	}
}

// resolve builds the reference node for a class name in this scope.
func (s *nameScope) resolve(n *sitter.Node, source []byte) *FullyQualifiedName {
	name := s.resolveName(n.Content(source))
	if name == "" {
		return nil
	}
	return &FullyQualifiedName{Name: name, Pos: spanOf(n)}
}

func spanOf(n *sitter.Node) token.Span {
	start, end := n.StartPoint(), n.EndPoint()
	return token.Span{
		Start: token.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1, Offset: int(n.StartByte())},
		End:   token.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1, Offset: int(n.EndByte())},
	}
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
