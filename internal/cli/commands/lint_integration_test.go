//go:build cgo

package commands

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/leapstack-labs/notransitive/internal/cli/output"
	"github.com/leapstack-labs/notransitive/internal/cli/testutil"
	roottestutil "github.com/leapstack-labs/notransitive/internal/testutil"
)

const controllerSource = `<?php
namespace App\Http;

use App\Service;
use Foo\Bar\ClassA;
use Other\Package\ClassB;

class Controller
{
    public function handle(ClassA $a, Service $s): ClassB
    {
        return new ClassB();
    }
}
`

func lintProject(t *testing.T) *config.Config {
	t.Helper()
	p := roottestutil.StandardFixture(t)
	p.WriteFile("src/App/Http/Controller.php", controllerSource)
	p.Chdir()

	cfg := config.Default()
	cfg.ProjectRoot = p.Root
	return cfg
}

func TestLintCommand_ReportsTransitiveImport(t *testing.T) {
	cfg := lintProject(t)

	res := testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "json")
	require.ErrorIs(t, res.Err, ErrLintIssues)
	assert.NotContains(t, res.Stdout, "Usage:")

	var got output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &got))
	assert.Equal(t, 2, got.Summary.FilesScanned)
	assert.Equal(t, 3, got.Summary.TotalIssues, "the import, the return type and the instantiation")
	require.Len(t, got.Files, 1)
	assert.Equal(t, "src/App/Http/Controller.php", got.Files[0].Path)

	d := got.Files[0].Diagnostics[0]
	assert.Equal(t, "noTransitiveDependency", d.RuleID)
	assert.Equal(t, 6, d.Line)
	assert.Equal(t, 5, d.Column)
	assert.Contains(t, d.Message, `Using class Other\Package\ClassB (defined in `)
	assert.Contains(t, d.Message, "vendor/composer/../other/package/src/ClassB.php")
	assert.Contains(t, d.Message, ") from a transitive dependency is not allowed.")
}

func TestLintCommand_DirectDependencyOnly(t *testing.T) {
	cfg := lintProject(t)
	cfg.Exclude = []string{"src/App/Http/**"}

	res := testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "markdown")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "No lint issues found in 1 files")
}

func TestLintCommand_SeverityOverrideAndThreshold(t *testing.T) {
	cfg := lintProject(t)
	cfg.Lint = &config.LintConfig{Severity: map[string]string{"noTransitiveDependency": "info"}}

	res := testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "markdown")
	require.NoError(t, res.Err, "info diagnostics are below the default threshold")

	res = testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "markdown", "--severity", "info")
	require.ErrorIs(t, res.Err, ErrLintIssues)
	assert.Contains(t, res.Stdout, "**info** noTransitiveDependency")
}

func TestLintCommand_PathArgument(t *testing.T) {
	cfg := lintProject(t)

	res := testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "markdown", filepath.Join(cfg.ProjectRoot, "src", "App", "Service.php"))
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "No lint issues found in 1 files")
}

func TestLintCommand_Disabled(t *testing.T) {
	cfg := lintProject(t)

	res := testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "markdown", "--disable", "noTransitiveDependency")
	require.NoError(t, res.Err)
}

func TestBaselineGenerate_SuppressesExisting(t *testing.T) {
	cfg := lintProject(t)

	res := testutil.ExecuteCommand(t, NewBaselineCommand(), cfg, "generate")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Recorded 3 diagnostics")
	assert.FileExists(t, filepath.Join(cfg.ProjectRoot, "notransitive-baseline.yaml"))

	res = testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "markdown")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "(3 baselined)")

	res = testutil.ExecuteCommand(t, NewLintCommand(), cfg, "--format", "markdown", "--no-baseline")
	require.ErrorIs(t, res.Err, ErrLintIssues)
}

func TestBaselineGenerate_PortableAcrossCheckouts(t *testing.T) {
	first := lintProject(t)
	res := testutil.ExecuteCommand(t, NewBaselineCommand(), first, "generate")
	require.NoError(t, res.Err)

	data, err := os.ReadFile(filepath.Join(first.ProjectRoot, "notransitive-baseline.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), first.ProjectRoot)
	assert.Contains(t, string(data), "defined in vendor/composer/../other/package/src/ClassB.php")

	second := lintProject(t)
	require.NotEqual(t, first.ProjectRoot, second.ProjectRoot)
	require.NoError(t, os.WriteFile(filepath.Join(second.ProjectRoot, "notransitive-baseline.yaml"), data, 0o600))

	res = testutil.ExecuteCommand(t, NewLintCommand(), second, "--format", "markdown")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "(3 baselined)")
}
