package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, os.Remove(tmpFile.Name()))
	})
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoad_ValidConfig(t *testing.T) {
	configContent := `
env: test
api:
  base_url: "http://localhost:8000"
  timeout: 10s
  requests_per_second: 5
  burst: 10
shell:
  address: "127.0.0.1:7070"
  timeout: 30s
  idle_timeout: 60s
store:
  path: "/tmp/portal.db"
bloqueo:
  dias_bloqueo: 30
`
	path := writeTempConfig(t, configContent)

	originalPath := os.Getenv("CONFIG_PATH")
	defer func() {
		require.NoError(t, os.Setenv("CONFIG_PATH", originalPath))
	}()
	require.NoError(t, os.Setenv("CONFIG_PATH", path))

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.TimeoutAPI)
	assert.Equal(t, 5.0, cfg.RequestsPerSecond)
	assert.Equal(t, 10, cfg.Burst)
	assert.Equal(t, "127.0.0.1:7070", cfg.AddressShell)
	assert.Equal(t, 30*time.Second, cfg.TimeoutShell)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "/tmp/portal.db", cfg.Path)
	assert.Equal(t, 30, cfg.DiasBloqueo)
}

func TestMustLoad_DefaultValues(t *testing.T) {
	configContent := `
env: test
api:
  base_url: "http://localhost:8000/api"
shell:
  address: "127.0.0.1:7070"
store:
  path: "/tmp/portal.db"
`
	path := writeTempConfig(t, configContent)

	originalPath := os.Getenv("CONFIG_PATH")
	defer func() {
		require.NoError(t, os.Setenv("CONFIG_PATH", originalPath))
	}()
	require.NoError(t, os.Setenv("CONFIG_PATH", path))

	cfg := MustLoad()

	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.TimeoutAPI)
	assert.Equal(t, 10.0, cfg.RequestsPerSecond)
	assert.Equal(t, 20, cfg.Burst)
	assert.Equal(t, 30, cfg.DiasBloqueo)
	assert.Equal(t, time.Duration(0), cfg.TimeoutShell)
	assert.Equal(t, time.Duration(0), cfg.IdleTimeout)
}
