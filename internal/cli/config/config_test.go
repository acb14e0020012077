package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringSlice("paths", nil, "paths to scan")
	flags.Int("workers", 0, "parallel workers")
	flags.String("log-file", "", "log file")
	flags.StringP("output", "o", "", "output format")
	return flags
}

// TestLoadConfig_Defaults tests the values used when nothing is configured.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"."}, cfg.Paths)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultMaxSize, cfg.Log.MaxSize)
	assert.Empty(t, cfg.Log.File)
	assert.Empty(t, cfg.GetLintConfig().Disabled)
	assert.Empty(t, GetConfigFileUsed())
}

// TestLoadConfig_File tests reading every section from notransitive.yaml.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `paths: [src, tests]
exclude: ["src/generated/**"]
workers: 4
baseline: notransitive-baseline.yaml
output: json
log:
  file: logs/notransitive.log
  level: debug
  max_size: 5
lint:
  disabled: [someRule]
  severity:
    noTransitiveDependency: warning
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	root := filepath.Dir(path)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, []string{"src", "tests"}, cfg.Paths)
	assert.Equal(t, []string{"src/generated/**"}, cfg.Exclude)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, filepath.Join(root, "notransitive-baseline.yaml"), cfg.Baseline)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(root, "logs", "notransitive.log"), cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Log.MaxSize)
	assert.Equal(t, DefaultMaxBackups, cfg.Log.MaxBackups)
	assert.Equal(t, []string{"someRule"}, cfg.GetLintConfig().Disabled)
	assert.Equal(t, map[string]string{"noTransitiveDependency": "warning"}, cfg.GetLintConfig().Severity)
	assert.Equal(t, path, GetConfigFileUsed())
}

// TestLoadConfig_UpwardSearch tests that the config is found from a subdirectory.
func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "workers: 2\n")
	root := filepath.Dir(path)
	sub := filepath.Join(root, "src", "App")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, resolved, actual)
}

// TestLoadConfig_Precedence tests flags > env vars > config file.
func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "workers: 1\npaths: [from_file]\noutput: text\n")

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("NOTRANSITIVE_WORKERS", "3")
		t.Setenv("NOTRANSITIVE_PATHS", "a, b")

		cfg, err := LoadConfig(path, testFlags())
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, []string{"a", "b"}, cfg.Paths)
		assert.Equal(t, "text", cfg.OutputFormat)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("NOTRANSITIVE_WORKERS", "3")

		flags := testFlags()
		require.NoError(t, flags.Set("workers", "8"))
		require.NoError(t, flags.Set("paths", "src"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, []string{"src"}, cfg.Paths)
	})

	t.Run("unset flag falls back to env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("NOTRANSITIVE_LOG_MAX_AGE", "7")
		t.Setenv("NOTRANSITIVE_LINT_DISABLED", "a,b")

		cfg, err := LoadConfig(path, testFlags())
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Workers)
		assert.Equal(t, 7, cfg.Log.MaxAge)
		assert.Equal(t, []string{"a", "b"}, cfg.GetLintConfig().Disabled)
	})

	t.Run("log-file flag", func(t *testing.T) {
		ResetConfig()
		flags := testFlags()
		require.NoError(t, flags.Set("log-file", "run.log"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(filepath.Dir(path), "run.log"), cfg.Log.File)
	})
}

// TestLoadConfig_Errors tests invalid configuration.
func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "bad yaml", content: "paths: [\n", errSubstr: "error reading config file"},
		{name: "bad output", content: "output: html\n", errSubstr: "invalid output format"},
		{name: "negative workers", content: "workers: -1\n", errSubstr: "workers must not be negative"},
		{name: "bad severity", content: "lint:\n  severity:\n    x: fatal\n", errSubstr: `unknown severity "fatal"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "workers", envKey("NOTRANSITIVE_WORKERS"))
	assert.Equal(t, "log.max_size", envKey("NOTRANSITIVE_LOG_MAX_SIZE"))
	assert.Equal(t, "lint.disabled", envKey("NOTRANSITIVE_LINT_DISABLED"))
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}

func TestGetConfig(t *testing.T) {
	t.Run("fallback to defaults", func(t *testing.T) {
		cfg := GetConfig(context.Background())
		require.NotNil(t, cfg)
		assert.Equal(t, []string{"."}, cfg.Paths)
		assert.Equal(t, DefaultOutput, cfg.OutputFormat)
		assert.NotEmpty(t, cfg.ProjectRoot)
	})

	t.Run("from context", func(t *testing.T) {
		want := &Config{Workers: 3}
		ctx := context.WithValue(context.Background(), ConfigKey(), want)
		assert.Same(t, want, GetConfig(ctx))
	})
}
