package transitive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/notransitive/internal/testutil"
	"github.com/leapstack-labs/notransitive/pkg/autoload"
	"github.com/leapstack-labs/notransitive/pkg/classify"
	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	"github.com/leapstack-labs/notransitive/pkg/lint/rules/transitive"
	"github.com/leapstack-labs/notransitive/pkg/manifest"
	"github.com/leapstack-labs/notransitive/pkg/php"
	"github.com/leapstack-labs/notransitive/pkg/token"
)

// stubReflection resolves classes from a fixed table.
type stubReflection map[string]string

func (s stubReflection) HasClass(name string) bool {
	_, ok := s[name]
	return ok
}

func (s stubReflection) DefiningFile(name string) (string, bool) {
	file, ok := s[name]
	return file, ok && file != ""
}

var classes = stubReflection{
	`Foo\Bar\ClassA`:       "/app/vendor/composer/../foo/bar/src/ClassA.php",
	`Other\Package\ClassB`: "/app/vendor/composer/../other/package/src/ClassB.php",
	`App\Service`:          "/app/src/App/Service.php",
	`Exception`:            "",
}

func newScope() lint.Scope {
	c := classify.New("composer.json", classify.WithLoader(func(string) manifest.DependencySet {
		return manifest.NewDependencySet(manifest.Identifier("foo/bar"))
	}))
	return lint.Scope{File: "src/Controller.php", Reflection: classes, Membership: c}
}

func span(line, col, length int) token.Span {
	return token.Span{
		Start: token.Position{Line: line, Column: col},
		End:   token.Position{Line: line, Column: col + length},
	}
}

func check(node php.Node, scope lint.Scope) []lint.Diagnostic {
	return transitive.NoTransitiveDependency.Check(node, scope)
}

func TestNoTransitiveDependency_UseStatement(t *testing.T) {
	tests := []struct {
		name      string
		imports   []php.ImportedName
		wantClass []string
	}{
		{
			name:    "declared dependency",
			imports: []php.ImportedName{{Name: `Foo\Bar\ClassA`}},
		},
		{
			name:      "transitive dependency",
			imports:   []php.ImportedName{{Name: `Other\Package\ClassB`}},
			wantClass: []string{`Other\Package\ClassB`},
		},
		{
			name:    "project class",
			imports: []php.ImportedName{{Name: `App\Service`}},
		},
		{
			name:    "unknown class",
			imports: []php.ImportedName{{Name: `Does\Not\Exist`}},
		},
		{
			name:    "built-in class without file",
			imports: []php.ImportedName{{Name: `Exception`}},
		},
		{
			name:    "function import is not a class",
			imports: []php.ImportedName{{Name: `Other\Package\ClassB`, Kind: php.UseFunction}},
		},
		{
			name: "each import is checked",
			imports: []php.ImportedName{
				{Name: `Other\Package\ClassB`},
				{Name: `Foo\Bar\ClassA`},
				{Name: `Other\Package\ClassB`, Alias: "B2"},
			},
			wantClass: []string{`Other\Package\ClassB`, `Other\Package\ClassB`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := check(&php.UseStatement{Names: tt.imports}, newScope())
			require.Len(t, diags, len(tt.wantClass))
			for i, d := range diags {
				assert.Equal(t, transitive.RuleID, d.RuleID)
				assert.Contains(t, d.Message, "Using class "+tt.wantClass[i]+" ")
			}
		})
	}
}

func TestNoTransitiveDependency_Message(t *testing.T) {
	pos := span(3, 5, 20)
	diags := check(&php.FullyQualifiedName{Name: `Other\Package\ClassB`, Pos: pos}, newScope())

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "noTransitiveDependency", d.RuleID)
	assert.Equal(t, core.SeverityError, d.Severity)
	assert.Equal(t, transitive.NoTransitiveDependency.Severity, d.Severity)
	assert.Equal(t,
		`Using class Other\Package\ClassB (defined in /app/vendor/composer/../other/package/src/ClassB.php) from a transitive dependency is not allowed.`,
		d.Message)
	assert.Equal(t, "src/Controller.php", d.FilePath)
	assert.Equal(t, pos.Start, d.Pos)
	assert.Equal(t, pos.End, d.EndPos)
}

func TestNoTransitiveDependency_ImportPosition(t *testing.T) {
	pos := span(4, 5, 20)
	stmt := &php.UseStatement{
		Names: []php.ImportedName{{Name: `Other\Package\ClassB`, Pos: pos}},
		Pos:   span(4, 1, 25),
	}

	diags := check(stmt, newScope())
	require.Len(t, diags, 1)
	assert.Equal(t, pos.Start, diags[0].Pos, "diagnostic points at the imported name")
}

func TestNoTransitiveDependency_LeadingBackslash(t *testing.T) {
	diags := check(&php.FullyQualifiedName{Name: `\Other\Package\ClassB`}, newScope())
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `Using class Other\Package\ClassB (`)
}

func TestNoTransitiveDependency_MissingCapabilities(t *testing.T) {
	node := &php.FullyQualifiedName{Name: `Other\Package\ClassB`}

	scope := newScope()
	scope.Reflection = nil
	assert.Empty(t, check(node, scope))

	scope = newScope()
	scope.Membership = nil
	assert.Empty(t, check(node, scope))
}

func TestNoTransitiveDependency_Registered(t *testing.T) {
	rule, ok := lint.GetByID("noTransitiveDependency")
	require.True(t, ok)

	info := lint.GetRuleInfo(rule)
	assert.Equal(t, "dependencies", info.Group)
	assert.Equal(t, core.SeverityError, info.DefaultSeverity)
	assert.NotEmpty(t, info.Rationale)
	assert.NotEmpty(t, info.Fix)
}

func TestNoTransitiveDependency_SeverityOverride(t *testing.T) {
	rule, ok := lint.GetByID(transitive.RuleID)
	require.True(t, ok)

	cfg := lint.NewConfig().SetSeverity(transitive.RuleID, core.SeverityWarning)
	a := lint.NewAnalyzerWithRules(cfg, []lint.NodeRule{rule})

	file := &php.File{Path: "src/Controller.php", Nodes: []php.Node{
		&php.FullyQualifiedName{Name: `Other\Package\ClassB`},
	}}
	diags := a.AnalyzeFile(file, newScope())
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityWarning, diags[0].Severity)
}

// The full stack on disk: autoload index resolves the defining file and the
// classifier reads the project's composer.json.
func TestNoTransitiveDependency_ComposerProject(t *testing.T) {
	p := testutil.StandardFixture(t)
	scope := lint.Scope{
		File:       "src/App/Service.php",
		Reflection: autoload.Load(p.Root),
		Membership: classify.New(manifest.PathIn(p.Root)),
	}

	stmt := &php.UseStatement{Names: []php.ImportedName{
		{Name: `Foo\Bar\ClassA`},
		{Name: `Other\Package\ClassB`},
		{Name: `App\Service`},
		{Name: `Exception`},
	}}

	diags := check(stmt, scope)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Using class Other\\Package\\ClassB (defined in ")
	assert.Contains(t, diags[0].Message, "/vendor/composer/../other/package/src/ClassB.php)")
}
