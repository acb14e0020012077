package autoload

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/notransitive/internal/testutil"
)

func classmapProject(t *testing.T) *testutil.Project {
	t.Helper()
	p := testutil.NewProject(t).Composer(`{"require": {"phpunit/phpunit": "^10"},
		"autoload": {"classmap": ["legacy/"]}}`)
	p.Installed(`{"packages": [
		{"name": "phpunit/phpunit", "install-path": "../phpunit/phpunit",
		 "autoload": {"classmap": ["src/"]}},
		{"name": "sebastian/diff", "install-path": "../sebastian/diff",
		 "autoload": {"classmap": ["src/", "Parser.php"]}}
	]}`)
	p.WriteFile("vendor/phpunit/phpunit/src/TestCase.php",
		"<?php\nnamespace PHPUnit\\Framework;\n\nabstract class TestCase {}\n")
	p.WriteFile("vendor/sebastian/diff/src/Output/Builder.php",
		"<?php declare(strict_types=1);\nnamespace SebastianBergmann\\Diff\\Output;\n\ninterface Builder {}\nfinal class UnifiedBuilder implements Builder {}\n")
	p.WriteFile("vendor/sebastian/diff/src/README.md", "class NotPhp {}\n")
	p.WriteFile("vendor/sebastian/diff/Parser.php", "<?php\nnamespace SebastianBergmann\\Diff;\n\nfinal class Parser {}\n")
	p.WriteFile("legacy/helpers.inc", "<?php\nclass Legacy_Helper {}\n")
	return p
}

func TestIndex_Classmap(t *testing.T) {
	p := classmapProject(t)
	ix := Load(p.Root, WithLogger(testutil.NewTestLogger(t)))
	root := filepath.ToSlash(p.Root)

	tests := []struct {
		class    string
		wantFile string
	}{
		{`PHPUnit\Framework\TestCase`, root + "/vendor/composer/../phpunit/phpunit/src/TestCase.php"},
		{`SebastianBergmann\Diff\Output\Builder`, root + "/vendor/composer/../sebastian/diff/src/Output/Builder.php"},
		{`SebastianBergmann\Diff\Output\UnifiedBuilder`, root + "/vendor/composer/../sebastian/diff/src/Output/Builder.php"},
		{`SebastianBergmann\Diff\Parser`, root + "/vendor/composer/../sebastian/diff/Parser.php"},
		{`\sebastianbergmann\diff\parser`, root + "/vendor/composer/../sebastian/diff/Parser.php"},
		{`Legacy_Helper`, root + "/legacy/helpers.inc"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			assert.True(t, ix.HasClass(tt.class))
			file, ok := ix.DefiningFile(tt.class)
			require.True(t, ok)
			assert.Equal(t, tt.wantFile, file)
		})
	}

	assert.False(t, ix.HasClass("NotPhp"))
}

func TestIndex_ClassmapFirstDeclarationWins(t *testing.T) {
	p := testutil.NewProject(t).Composer(`{}`)
	p.Installed(`{"packages": [
		{"name": "a/one", "install-path": "../a/one", "autoload": {"classmap": ["src/"]}},
		{"name": "b/two", "install-path": "../b/two", "autoload": {"classmap": ["src/"]}}
	]}`)
	p.WriteFile("vendor/a/one/src/Dup.php", "<?php\nclass Dup {}\n")
	p.WriteFile("vendor/b/two/src/Dup.php", "<?php\nclass Dup {}\n")

	file, ok := Load(p.Root).DefiningFile("Dup")
	require.True(t, ok)
	assert.Contains(t, file, "/a/one/src/Dup.php")
}

func TestDeclaredClasses(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "global namespace",
			source: "<?php\nclass A {}\ninterface B {}\ntrait C {}\nenum D: string {}\n",
			want:   []string{"A", "B", "C", "D"},
		},
		{
			name:   "modifiers",
			source: "<?php\nnamespace N;\nabstract class A {}\nfinal readonly class B {}\n",
			want:   []string{`N\A`, `N\B`},
		},
		{
			name:   "several namespaces",
			source: "<?php\nnamespace One;\nclass A {}\nnamespace Two {\n  class A {}\n}\n",
			want:   []string{`One\A`, `Two\A`},
		},
		{
			name:   "docblocks and expressions are not declarations",
			source: "<?php\n/**\n * class Fake\n */\n$x = new class {};\necho Foo::class;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, declaredClasses(tt.source))
		})
	}
}
