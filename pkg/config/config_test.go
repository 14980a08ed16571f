package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

backend:
  url: http://news-backend:8000
  timeout: 5s

refresh:
  interval: 15m

ui:
  theme: dark
  excerpt_length: 150
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "http://news-backend:8000", cfg.Backend.URL)
		assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, 15*time.Minute, cfg.Refresh.Interval)
		assert.Equal(t, "dark", cfg.UI.Theme)
		assert.Equal(t, 150, cfg.UI.ExcerptLength)
	})

	t.Run("defaults", func(t *testing.T) {
		configContent := `
backend:
  url: http://localhost:8000
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, 30*time.Minute, cfg.Refresh.Interval)
		assert.Equal(t, "light", cfg.UI.Theme)
		assert.Equal(t, 200, cfg.UI.ExcerptLength)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_BACKEND_URL", "http://expanded:8000")
		configContent := `
backend:
  url: ${TEST_BACKEND_URL}
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "http://expanded:8000", cfg.Backend.URL)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad.yml")
		err := os.WriteFile(configPath, []byte("server: [not a map"), 0o644)
		require.NoError(t, err)

		_, err = Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid theme", func(t *testing.T) {
		configContent := `
ui:
  theme: solarized
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "theme.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		_, err = Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ui.theme")
	})

	t.Run("refresh interval too short", func(t *testing.T) {
		configContent := `
refresh:
  interval: 5s
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "refresh.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		_, err = Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refresh interval")
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, 30*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, "light", cfg.UI.Theme)

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":8080", listen)
	assert.Equal(t, 30*time.Second, timeout)
}
