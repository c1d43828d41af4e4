package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := NewLoaderWithViper(viper.New()).Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendCPU, cfg.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lppool.yaml")
	content := `
log_level: debug
backend: cpu
pool:
  width: 4
  stride: 2
  power: 3.5
  batch_mode: true
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, loader.ConfigFileUsed())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Pool.Width)
	assert.Equal(t, 2, cfg.Pool.Stride)
	assert.Equal(t, 3.5, cfg.Pool.Power)
	assert.True(t, cfg.Pool.BatchMode)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LPPOOL_POOL_WIDTH", "8")
	t.Setenv("LPPOOL_SERVER_PORT", "7070")
	t.Setenv("LPPOOL_LOG_LEVEL", "warn")

	cfg, err := NewLoaderWithViper(viper.New()).Load("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Pool.Width)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := NewLoaderWithViper(viper.New()).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "does not exist")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool:\n  width: 40\n"), 0o600))
	_, err = NewLoaderWithViper(viper.New()).Load(path)
	assert.ErrorContains(t, err, "validation failed")
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	paths := SearchPaths()

	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, filepath.Join("/xdg", "lppool"))
	assert.Equal(t, "/etc/lppool", paths[len(paths)-1])
}
