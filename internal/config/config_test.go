package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/cedolino/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvStore, config.EnvEnv, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoadFromFirstRunWritesTemplate(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, config.StoreJSON, cfg.Store)
	assert.Equal(t, config.DefaultTenantID, cfg.Outlook.TenantID)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)

	// The template must parse back to the same defaults.
	_, err = os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	again, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadFromPartialFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	data := []byte(`// comment
{
  // the store
  "store": "sqlite",
  "outlook": {"timezone": "Europe/Rome"}
}
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600))

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, "Europe/Rome", cfg.Outlook.Timezone)
	assert.Equal(t, config.DefaultClientID, cfg.Outlook.ClientID)
	assert.Equal(t, config.DefaultWork, cfg.Outlook.WorkCategory)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromKeepsLogLevel(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"log_level": "debug"}`), 0o600))

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvStore, "sqlite")
	t.Setenv(config.EnvLogLevel, "warn")

	cfg, err := config.LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestUnknownStore(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvStore, "postgres")

	_, err := config.LoadFrom(t.TempDir())
	assert.ErrorIs(t, err, config.ErrUnknownStore)
}

func TestInvalidJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0o600))

	_, err := config.LoadFrom(dir)
	assert.Error(t, err)
}

func TestDirFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvDataDir, "/tmp/cedolino-test")
	dir, err := config.Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cedolino-test", dir)
}
