package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "aiday.log", cfg.Logging.File)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadReadsYAML(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: gemini-2.5-pro
api_key: file-key
output_dir: /tmp/plans
logging:
  verbose: true
  file: custom.log
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "/tmp/plans", cfg.OutputDir)
	assert.True(t, cfg.Logging.Verbose)
	assert.Equal(t, "custom.log", cfg.Logging.File)
}

func TestEnvKeyOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: file-key\n"), 0644))

	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestAPIKeyFallbackEnvVar(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.APIKey)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.APIKey = "key"
	cfg.Model = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadPromptOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analyzer: custom analyzer\nreference_agenda: custom agenda\n"), 0644))

	p, err := LoadPromptOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "custom analyzer", p.Analyzer)
	assert.Equal(t, "custom agenda", p.ReferenceAgenda)
	assert.Empty(t, p.Researcher)
}

func TestLoadPromptOverridesMissingFile(t *testing.T) {
	p, err := LoadPromptOverrides(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, p.Analyzer)
}
