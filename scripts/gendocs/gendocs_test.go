package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Frontmatter("Title", `say "hi"`)
	w.Header(2, "Section")
	w.BulletList([]string{"a", Bold("b")})
	w.CodeBlock("bash", "echo hi\n")
	w.Table([]string{"Key", "Value"}, [][]string{{InlineCode("k"), "v"}})

	out := string(w.Bytes())
	assert.Contains(t, out, "---\ntitle: \"Title\"\ndescription: \"say \\\"hi\\\"\"\n---\n")
	assert.Contains(t, out, "## Section\n\n")
	assert.Contains(t, out, "- a\n- **b**\n")
	assert.Contains(t, out, "```bash\necho hi\n```\n")
	assert.Contains(t, out, "| Key | Value |")
	assert.Contains(t, out, "| `k` | v |")
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "a b c", cleanDescription("  a\n b\t c "))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "NOTRANSITIVE_WORKERS", envName("workers"))
	assert.Equal(t, "NOTRANSITIVE_LOG_MAX_SIZE", envName("log.max_size"))
}

func TestGenerators(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		contains []string
	}{
		{"cli", "index.md", []string{"# CLI Reference", "[`lint`](/cli/lint)", "`--config`", "NOTRANSITIVE_LOG_FILE"}},
		{"cli", "lint.md", []string{"# lint", "notransitive lint", "`--severity`"}},
		{"config", "configuration.md", []string{"# Configuration", "`log.max_backups`", "notransitive.yaml"}},
		{"lint", "index.md", []string{"## Dependencies {#dependencies}", "### noTransitiveDependency", "```php"}},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.file, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, generators[tt.name].run(dir))

			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(data), want)
			}
		})
	}
}
