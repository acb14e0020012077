package autoload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/notransitive/internal/testutil"
)

func TestIndex_ResolvesComposerLayout(t *testing.T) {
	p := testutil.StandardFixture(t)
	ix := Load(p.Root, WithLogger(testutil.NewTestLogger(t)))
	root := filepath.ToSlash(p.Root)

	tests := []struct {
		name     string
		class    string
		wantKnow bool
		wantFile string
	}{
		{
			name:     "declared vendor package",
			class:    `Foo\Bar\ClassA`,
			wantKnow: true,
			wantFile: root + "/vendor/composer/../foo/bar/src/ClassA.php",
		},
		{
			name:     "transitive vendor package",
			class:    `Other\Package\ClassB`,
			wantKnow: true,
			wantFile: root + "/vendor/composer/../other/package/src/ClassB.php",
		},
		{
			name:     "leading backslash",
			class:    `\Foo\Bar\ClassA`,
			wantKnow: true,
			wantFile: root + "/vendor/composer/../foo/bar/src/ClassA.php",
		},
		{
			name:     "project class",
			class:    `App\Service`,
			wantKnow: true,
			wantFile: root + "/src/App/Service.php",
		},
		{
			name:     "built-in class has no file",
			class:    `DateTimeImmutable`,
			wantKnow: true,
		},
		{
			name:     "built-in lookup ignores case",
			class:    `\exception`,
			wantKnow: true,
		},
		{
			name:  "unknown class",
			class: `Nope\Missing`,
		},
		{
			name:  "mapped prefix but no file",
			class: `Foo\Bar\Missing`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKnow, ix.HasClass(tt.class))
			file, ok := ix.DefiningFile(tt.class)
			assert.Equal(t, tt.wantFile != "", ok)
			assert.Equal(t, tt.wantFile, file)
		})
	}

	assert.Len(t, ix.Packages(), 2)
}

func TestIndex_ComposerOneLayout(t *testing.T) {
	p := testutil.NewProject(t).Composer(`{"require": {"foo/bar": "*"}}`)
	p.Installed(`[{"name": "foo/bar", "autoload": {"psr-4": {"Foo\\Bar\\": ["lib", "src/"]}}}]`)
	p.WriteFile("vendor/foo/bar/src/Thing.php", "<?php\n")

	ix := Load(p.Root)
	file, ok := ix.DefiningFile(`Foo\Bar\Thing`)
	require.True(t, ok)
	// No install-path: Composer 1 defaults to ../<name>.
	assert.Equal(t, filepath.ToSlash(p.Root)+"/vendor/composer/../foo/bar/src/Thing.php", file)
}

func TestIndex_PSR0(t *testing.T) {
	p := testutil.NewProject(t).Composer(`{}`)
	p.Installed(`{"packages": [{"name": "legacy/lib", "install-path": "../legacy/lib",
		"autoload": {"psr-0": {"Legacy_": "lib/"}}}]}`)
	p.WriteFile("vendor/legacy/lib/lib/Legacy/Http/Client.php", "<?php\n")

	ix := Load(p.Root)
	file, ok := ix.DefiningFile("Legacy_Http_Client")
	require.True(t, ok)
	assert.Contains(t, file, "vendor/composer/../legacy/lib/lib/Legacy/Http/Client.php")
}

func TestIndex_LongestPrefixWins(t *testing.T) {
	p := testutil.NewProject(t).Composer(`{}`)
	p.Installed(`{"packages": [
		{"name": "foo/core", "install-path": "../foo/core", "autoload": {"psr-4": {"Foo\\": "src/"}}},
		{"name": "foo/extra", "install-path": "../foo/extra", "autoload": {"psr-4": {"Foo\\Extra\\": "src/"}}}
	]}`)
	p.WriteFile("vendor/foo/extra/src/Widget.php", "<?php\n")
	p.WriteFile("vendor/foo/core/src/Extra/Widget.php", "<?php\n")

	file, ok := Load(p.Root).DefiningFile(`Foo\Extra\Widget`)
	require.True(t, ok)
	assert.Contains(t, file, "/foo/extra/src/Widget.php")
}

func TestIndex_MissingMetadata(t *testing.T) {
	root := t.TempDir()
	ix := Load(root)

	assert.False(t, ix.HasClass(`Foo\Bar\ClassA`))
	assert.True(t, ix.HasClass("Exception"))
	assert.Empty(t, ix.Packages())
}

func TestIndex_CustomVendorDir(t *testing.T) {
	p := testutil.NewProject(t).Composer(`{"config": {"vendor-dir": "deps"}}`)
	p.WriteFile("deps/composer/installed.json", `{"packages": [{"name": "foo/bar", "install-path": "../foo/bar",
		"autoload": {"psr-4": {"Foo\\Bar\\": "src/"}}}]}`)
	p.WriteFile("deps/foo/bar/src/ClassA.php", "<?php\n")

	file, ok := Load(p.Root).DefiningFile(`Foo\Bar\ClassA`)
	require.True(t, ok)
	assert.Equal(t, filepath.ToSlash(p.Root)+"/deps/composer/../foo/bar/src/ClassA.php", file)
}

func TestIndex_ResultsAreCached(t *testing.T) {
	p := testutil.StandardFixture(t)
	ix := Load(p.Root)

	require.True(t, ix.HasClass(`Foo\Bar\ClassA`))
	require.NoError(t, os.Remove(filepath.Join(p.Root, "vendor", "foo", "bar", "src", "ClassA.php")))
	assert.True(t, ix.HasClass(`Foo\Bar\ClassA`), "resolution is memoized for the run")
}

func TestReadInstalled_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")
	require.NoError(t, os.WriteFile(path, []byte(`"nope"`), 0o644))

	_, err := ReadInstalled(path)
	assert.Error(t, err)
}

func TestPSR0Path(t *testing.T) {
	assert.Equal(t, "Vendor/Pkg/Some/Class.php", psr0Path(`Vendor\Pkg\Some_Class`))
	assert.Equal(t, "Twig/Environment.php", psr0Path("Twig_Environment"))
}
