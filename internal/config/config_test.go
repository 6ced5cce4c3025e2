package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "react", cfg.Analysis.FrameworkModule)
	assert.Equal(t, 0, cfg.Analysis.Workers)
	assert.False(t, cfg.Watch.Enabled)
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
}

func TestLoadParsesSections(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
    root "."
    name "my-app"
}
analysis {
    framework_module "preact"
    workers 4
    file_timeout_ms 5000
}
watch {
    enabled true
    debounce_ms 500
}
include "src/**/*.tsx" "src/**/*.ts"
exclude {
    "**/__tests__/**"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "my-app", cfg.Project.Name)
	assert.Equal(t, dir, cfg.Project.Root)
	assert.Equal(t, "preact", cfg.Analysis.FrameworkModule)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 5000, cfg.Analysis.FileTimeoutMs)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
	assert.Equal(t, []string{"src/**/*.tsx", "src/**/*.ts"}, cfg.Include)
	assert.Equal(t, []string{"**/__tests__/**"}, cfg.Exclude)
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`analysis "unterminated`), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestEffectiveWorkersAutoDetect(t *testing.T) {
	cfg := Default(".")
	assert.Greater(t, cfg.EffectiveWorkers(), 0)

	cfg.Analysis.Workers = 2
	assert.Equal(t, 2, cfg.EffectiveWorkers())
}
