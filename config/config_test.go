package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")
	t.Setenv("PERPLEXITY_MODEL", "")
	t.Setenv("PERPLEXITY_REASONING_MODEL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "pplx-test", cfg.APIKey)
	assert.Equal(t, "sonar-pro", cfg.Model)
	assert.Equal(t, "sonar-reasoning-pro", cfg.ReasoningModel)
	assert.Equal(t, "mcp-server.log", cfg.LogPath)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")
	t.Setenv("PERPLEXITY_MODEL", "sonar")
	t.Setenv("PERPLEXITY_REASONING_MODEL", "sonar-reasoning")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sonar", cfg.Model)
	assert.Equal(t, "sonar-reasoning", cfg.ReasoningModel)
}

func TestFromEnv_MissingKey(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "")

	_, err := FromEnv()
	require.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "")
	t.Setenv("PERPLEXITY_MODEL", "")
	t.Setenv("PERPLEXITY_REASONING_MODEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_key: file-key\nmodel: sonar\nlog_path: /tmp/pplx.log\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "sonar", cfg.Model)
	assert.Equal(t, "sonar-reasoning-pro", cfg.ReasoningModel, "unset file field keeps default")
	assert.Equal(t, "/tmp/pplx.log", cfg.LogPath)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "env-key")
	t.Setenv("PERPLEXITY_MODEL", "env-model")
	t.Setenv("PERPLEXITY_REASONING_MODEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_key: file-key\nmodel: file-model\nreasoning_model: file-reasoning\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, "file-reasoning", cfg.ReasoningModel)
}

func TestLoad_MissingFileTolerated(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "pplx-test", cfg.APIKey)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
