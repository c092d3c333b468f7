package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
assistant:
  provider: gemini
  model: gemini-2.5-flash
  api_key: file-key
  index_names:
    - contracts
storage:
  path: draftsmith.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.Assistant.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Assistant.Model)
	assert.Equal(t, "file-key", cfg.Assistant.APIKey)
	assert.Equal(t, []string{"contracts"}, cfg.Assistant.IndexNames)
	assert.Equal(t, "draftsmith.db", cfg.Storage.Path)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "upstream", cfg.Assistant.Provider)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assistant:\n  api_key: file-key\n"), 0644))

	t.Setenv("DRAFTSMITH_API_KEY", "env-key")
	t.Setenv("DRAFTSMITH_PROVIDER", "gemini")
	t.Setenv("DRAFTSMITH_ADDR", ":7070")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Assistant.APIKey)
	assert.Equal(t, "gemini", cfg.Assistant.Provider)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "upstream", cfg.Assistant.Provider)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
