package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/notransitive/pkg/lint"
)

func diag(path, msg string) lint.Diagnostic {
	return lint.Diagnostic{RuleID: "noTransitiveDependency", FilePath: path, Message: msg}
}

func TestFromDiagnostics(t *testing.T) {
	b := FromDiagnostics([]lint.Diagnostic{
		diag("src/b.php", "x"),
		diag("src/a.php", "y"),
		diag("src/b.php", "x"),
	}, "")

	assert.Equal(t, Version, b.Version)
	assert.Equal(t, []Entry{
		{Rule: "noTransitiveDependency", Path: "src/a.php", Message: "y", Count: 1},
		{Rule: "noTransitiveDependency", Path: "src/b.php", Message: "x", Count: 2},
	}, b.Entries)
	assert.Equal(t, 3, b.Len())
}

func TestFilter(t *testing.T) {
	b := &Baseline{Entries: []Entry{
		{Rule: "noTransitiveDependency", Path: "src/a.php", Message: "x", Count: 1},
	}}

	tests := []struct {
		name           string
		diags          []lint.Diagnostic
		wantKept       int
		wantSuppressed int
	}{
		{
			name:           "exact match suppressed",
			diags:          []lint.Diagnostic{diag("src/a.php", "x")},
			wantSuppressed: 1,
		},
		{
			name:           "extra occurrence kept",
			diags:          []lint.Diagnostic{diag("src/a.php", "x"), diag("src/a.php", "x")},
			wantKept:       1,
			wantSuppressed: 1,
		},
		{
			name:     "different file kept",
			diags:    []lint.Diagnostic{diag("src/b.php", "x")},
			wantKept: 1,
		},
		{
			name:     "different message kept",
			diags:    []lint.Diagnostic{diag("src/a.php", "y")},
			wantKept: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, suppressed := b.Filter(tt.diags, "")
			assert.Len(t, kept, tt.wantKept)
			assert.Equal(t, tt.wantSuppressed, suppressed)
		})
	}
}

func TestFilter_Empty(t *testing.T) {
	diags := []lint.Diagnostic{diag("src/a.php", "x")}

	var nilBaseline *Baseline
	kept, n := nilBaseline.Filter(diags, "")
	assert.Equal(t, diags, kept)
	assert.Zero(t, n)

	kept, n = (&Baseline{}).Filter(diags, "")
	assert.Equal(t, diags, kept)
	assert.Zero(t, n)
}

func TestRelativeToRoot(t *testing.T) {
	msg := func(root string) string {
		return `Using class Other\Package\ClassB (defined in ` + root +
			`/vendor/composer/../other/package/src/ClassB.php) from a transitive dependency is not allowed.`
	}

	b := FromDiagnostics([]lint.Diagnostic{diag("src/a.php", msg("/home/dev/app"))}, "/home/dev/app/")
	require.Len(t, b.Entries, 1)
	assert.Equal(t,
		`Using class Other\Package\ClassB (defined in vendor/composer/../other/package/src/ClassB.php) from a transitive dependency is not allowed.`,
		b.Entries[0].Message)

	tests := []struct {
		name           string
		checkout       string
		root           string
		wantSuppressed int
	}{
		{name: "other checkout", checkout: "/builds/ci/app", root: "/builds/ci/app", wantSuppressed: 1},
		{name: "same checkout", checkout: "/home/dev/app", root: "/home/dev/app", wantSuppressed: 1},
		{name: "root unknown", checkout: "/builds/ci/app", root: "", wantSuppressed: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, suppressed := b.Filter([]lint.Diagnostic{diag("src/a.php", msg(tt.checkout))}, tt.root)
			assert.Equal(t, tt.wantSuppressed, suppressed)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	b := FromDiagnostics([]lint.Diagnostic{diag("src/a.php", `Using class Other\Package\ClassB (defined in x) ...`)}, "")

	require.NoError(t, b.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rule: noTransitiveDependency")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, b, loaded)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	b, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, b.Entries)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entries: [oops"), 0o600))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse baseline")

	future := filepath.Join(dir, "future.yaml")
	require.NoError(t, os.WriteFile(future, []byte("version: 99\n"), 0o600))
	_, err = Load(future)
	assert.ErrorContains(t, err, "unsupported version 99")
}
