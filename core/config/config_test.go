package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "files", cfg.Database.Table)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1500*time.Millisecond, cfg.Media.Debounce)
	assert.Equal(t, 64, cfg.Media.BatchSize)
	assert.Equal(t, 4, cfg.Media.Workers)
	assert.False(t, cfg.Media.WatchBucket)
	assert.Equal(t, 16, cfg.Media.MaxViews)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("MEDIA_DEBOUNCE", "250ms")
	t.Setenv("MEDIA_WATCH_BUCKET", "true")
	t.Setenv("DATABASE_DRIVER", "mysql")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Media.Debounce)
	assert.True(t, cfg.Media.WatchBucket)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\nMEDIA_BATCH_SIZE=16\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("MEDIA_BATCH_SIZE")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 16, cfg.Media.BatchSize)
}
