package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Project is a temporary Composer project on disk.
type Project struct {
	t    testing.TB
	Root string
}

// NewProject creates an empty project in a temporary directory.
func NewProject(t testing.TB) *Project {
	t.Helper()
	return &Project{t: t, Root: t.TempDir()}
}

// WriteFile writes contents to rel (slash separated) under the project root,
// creating parent directories.
func (p *Project) WriteFile(rel, contents string) string {
	p.t.Helper()
	path := filepath.Join(p.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		p.t.Fatalf("create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		p.t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// Composer writes composer.json.
func (p *Project) Composer(contents string) *Project {
	p.t.Helper()
	p.WriteFile("composer.json", contents)
	return p
}

// Installed writes vendor/composer/installed.json.
func (p *Project) Installed(contents string) *Project {
	p.t.Helper()
	p.WriteFile("vendor/composer/installed.json", contents)
	return p
}

// Chdir switches the working directory to the project root for the
// duration of the test.
func (p *Project) Chdir() *Project {
	p.t.Helper()
	if tb, ok := p.t.(interface{ Chdir(string) }); ok {
		tb.Chdir(p.Root)
		return p
	}
	p.t.Fatalf("Chdir requires *testing.T or *testing.B")
	return p
}

// StandardFixture lays out a project that declares foo/bar, which in turn
// pulls in other/package:
//
//	composer.json                       require foo/bar
//	src/App/Service.php                 project class App\Service
//	vendor/foo/bar/src/ClassA.php       Foo\Bar\ClassA (primary)
//	vendor/other/package/src/ClassB.php Other\Package\ClassB (transitive)
func StandardFixture(t testing.TB) *Project {
	t.Helper()
	p := NewProject(t)
	p.Composer(`{
  "name": "acme/app",
  "require": {"php": ">=8.1", "foo/bar": "^1.0"},
  "autoload": {"psr-4": {"App\\": "src/App/"}}
}`)
	p.Installed(`{
  "packages": [
    {"name": "foo/bar", "version": "1.2.0", "install-path": "../foo/bar",
     "autoload": {"psr-4": {"Foo\\Bar\\": "src/"}}},
    {"name": "other/package", "version": "2.0.0", "install-path": "../other/package",
     "autoload": {"psr-4": {"Other\\Package\\": "src/"}}}
  ],
  "dev": true
}`)
	p.WriteFile("src/App/Service.php", "<?php\nnamespace App;\n\nclass Service {}\n")
	p.WriteFile("vendor/foo/bar/src/ClassA.php", "<?php\nnamespace Foo\\Bar;\n\nclass ClassA {}\n")
	p.WriteFile("vendor/other/package/src/ClassB.php", "<?php\nnamespace Other\\Package;\n\nclass ClassB {}\n")
	return p
}
