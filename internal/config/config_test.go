package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ":9871", c.Addr())
	assert.Equal(t, "gemini", c.AI.Provider)
	assert.Equal(t, "gemini-2.5-pro", c.AI.Model)
	assert.Equal(t, "file", c.Storage.Driver)
	assert.False(t, c.Auth.Enabled())
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8080
ai:
  provider: openai
  model: gpt-4o-mini
  base_url: http://llm.local/v1
  timeout: 30s
storage:
  driver: memory
auth:
  password_hash: "$2a$10$abc"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("PORT", "9000")
	t.Setenv("AI_API_KEY", "secret")
	t.Setenv("LOG_CONSOLE", "false")

	c := Load(path)

	assert.Equal(t, ":9000", c.Addr())
	assert.Equal(t, "openai", c.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", c.AI.Model)
	assert.Equal(t, "http://llm.local/v1", c.AI.BaseURL)
	assert.Equal(t, "secret", c.AI.APIKey)
	assert.Equal(t, 30*time.Second, c.AI.Timeout)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.True(t, c.Auth.Enabled())
	assert.False(t, c.Log.Console)
	// untouched defaults survive a partial file
	assert.Equal(t, "exports", c.Export.Dir)
}
