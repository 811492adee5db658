package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"page-store/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
	assert.Equal(t, "pages", cfg.Storage.Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, 95, cfg.Storage.Quality)
	assert.Equal(t, 3, cfg.Storage.MaxRetries)
	assert.Equal(t, time.Second, cfg.Storage.RetryUnit)
	assert.Equal(t, 0, cfg.Storage.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "scans")
	t.Setenv("STORAGE_RETRY_UNIT", "250ms")
	t.Setenv("STORAGE_USE_SSL", "false")
	t.Setenv("STORAGE_QUALITY", "80")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "scans", cfg.Storage.Bucket)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.RetryUnit)
	assert.False(t, cfg.Storage.UseSSL)
	assert.Equal(t, 80, cfg.Storage.Quality)
}

func TestLoadConfig_DotEnvOverrides(t *testing.T) {
	// Registered so the values written by the .env file are restored afterwards.
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("LOG_FORMAT", "json")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9000\nLOG_FORMAT=console\n"), 0o600))

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "console", cfg.Log.Format)
}
