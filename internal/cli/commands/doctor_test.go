package commands

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/notransitive/internal/cli/config"
	"github.com/leapstack-labs/notransitive/internal/cli/testutil"
	roottestutil "github.com/leapstack-labs/notransitive/internal/testutil"
)

func findCheck(t *testing.T, out *DoctorOutput, id string) HealthCheck {
	t.Helper()
	for _, c := range out.Checks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("check %q not found", id)
	return HealthCheck{}
}

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		want   int
	}{
		{"no checks", nil, 100},
		{"all passing", []HealthCheck{{Status: statusPass}, {Status: statusPass}}, 100},
		{"one warning", []HealthCheck{{Status: statusWarn}}, 85},
		{"one error", []HealthCheck{{Status: statusError}}, 70},
		{"clamped", []HealthCheck{{Status: statusError}, {Status: statusError}, {Status: statusError}, {Status: statusError}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateHealthScore(tt.checks))
		})
	}
}

func TestBuildDoctorOutput_StandardProject(t *testing.T) {
	p := roottestutil.StandardFixture(t)
	cfg := config.Default()
	cfg.ProjectRoot = p.Root

	out := buildDoctorOutput(context.Background(), cfg, p.Root)

	m := findCheck(t, out, "manifest")
	assert.Equal(t, statusPass, m.Status)
	assert.Equal(t, []string{"foo/bar"}, m.Details)

	installed := findCheck(t, out, "installed")
	assert.Equal(t, statusPass, installed.Status)
	assert.Equal(t, "2 installed, 1 transitive", installed.Summary)
	assert.Equal(t, []string{"other/package"}, installed.Details)

	assert.Equal(t, statusPass, findCheck(t, out, "baseline").Status)

	groups := make([]string, 0, len(out.Checks))
	for _, c := range out.Checks {
		groups = append(groups, c.Group)
	}
	assert.IsNonDecreasing(t, groups)
}

func TestBuildDoctorOutput_MissingComposer(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.ProjectRoot = root

	out := buildDoctorOutput(context.Background(), cfg, root)

	assert.Equal(t, statusError, findCheck(t, out, "manifest").Status)
	assert.Equal(t, statusError, findCheck(t, out, "installed").Status)
	assert.Less(t, out.Score, 50)
	assert.NotEmpty(t, out.Recommendations)
}

func TestDoctorCommand_Output(t *testing.T) {
	p := roottestutil.StandardFixture(t)
	p.Chdir()
	cfg := config.Default()

	t.Run("markdown", func(t *testing.T) {
		res := testutil.ExecuteCommand(t, NewDoctorCommand(), cfg, "--format", "markdown")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "# notransitive Health Report")
		assert.Contains(t, res.Stdout, "## Composer")
		assert.Contains(t, res.Stdout, "  - other/package")
		testutil.AssertValidMarkdown(t, res.Stdout)
	})

	t.Run("json", func(t *testing.T) {
		res := testutil.ExecuteCommand(t, NewDoctorCommand(), cfg, "--format", "json")
		require.NoError(t, res.Err)

		var got DoctorOutput
		require.NoError(t, json.Unmarshal([]byte(res.Stdout), &got))
		assert.Len(t, got.Checks, 5)
	})
}
