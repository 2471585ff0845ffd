package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv("TUDU_LOG_LEVEL", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	def := DefaultAppConfig()
	require.Equal(t, def.Database.Path, cfg.Database.Path)
	require.True(t, cfg.Database.AutoMigrate)
	require.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, def.Display.DateFormat, cfg.Display.DateFormat)
}

func TestLoadConfigReadsFile(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv("TUDU_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`database:
  path: /tmp/custom.db
  auto_migrate: false
log:
  level: debug
display:
  date_format: "2006-01-02"
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	require.False(t, cfg.Database.AutoMigrate)
	require.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "2006-01-02", cfg.Display.DateFormat)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "/tmp/from-env.db")
	t.Setenv("TUDU_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: /tmp/file.db\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv("TUDU_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Database.Path = "/tmp/saved.db"
	cfg.Log.Level = "info"

	require.NoError(t, SaveConfig(path, cfg))
	require.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
