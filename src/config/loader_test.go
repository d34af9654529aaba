package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoader_Load_NoPathUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "pbix-insight", cfg.App.Name)
	assert.Equal(t, 4, cfg.Batch.MaxParallelReports)
	assert.NotEmpty(t, cfg.Scoring.ComplexityTokens)
}

func TestLoader_Load_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
github:
  repo: acme/extract
  timeout: 10s
output:
  top_measures: 5
batch:
  max_parallel_reports: 8
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme/extract", cfg.GitHub.Repo)
	assert.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 5, cfg.Output.TopMeasures)
	assert.Equal(t, 8, cfg.Batch.MaxParallelReports)

	// Untouched sections keep their defaults.
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIBase)
	assert.Equal(t, ".dax", cfg.Artifacts.DaxExtension)
}

func TestLoader_Load_EnvExpansion(t *testing.T) {
	t.Setenv("PBIX_TEST_TOKEN", "secret-token")
	path := writeConfig(t, `
github:
  token: ${PBIX_TEST_TOKEN}
  ref: ${PBIX_TEST_REF:-release}
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.GitHub.Token)
	assert.Equal(t, "release", cfg.GitHub.Ref)
}

func TestLoader_Load_EnvOverridesDefault(t *testing.T) {
	t.Setenv("PBIX_TEST_REF", "hotfix")
	path := writeConfig(t, `
github:
  ref: ${PBIX_TEST_REF:-release}
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hotfix", cfg.GitHub.Ref)
}

func TestLoader_Load_UnsetEnvBecomesEmpty(t *testing.T) {
	path := writeConfig(t, `
github:
  token: "${PBIX_DEFINITELY_UNSET_VAR}"
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.GitHub.Token)
}

func TestLoader_Load_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "github: [unclosed")

	_, err := NewLoader().Load(path)
	assert.Error(t, err)
}
