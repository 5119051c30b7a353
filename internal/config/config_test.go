package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 12*time.Hour, cfg.Reminders.IntervalDuration())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: "9090"
kv:
  backend: sqlite
  sqlite_path: /tmp/kv.db
reminders:
  interval: 30m
`), 0o600)
	require.NoError(t, err)

	t.Setenv("PORT", "7070")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.KV.Backend)
	assert.Equal(t, "/tmp/kv.db", cfg.KV.SQLitePath)
	assert.Equal(t, 3, cfg.KV.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.Reminders.IntervalDuration())
}

func TestApplyEnv_DSNImpliesPostgres(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(envMap(map[string]string{"DB_DSN": "postgres://x"})))
	assert.Equal(t, "postgres", cfg.Storage.Backend)

	cfg = Default()
	require.NoError(t, cfg.applyEnv(envMap(map[string]string{"DB_DSN": "postgres://x", "STORAGE_BACKEND": "memory"})))
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestApplyEnv_BadRedisDB(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{"REDIS_DB": "x"}))
	require.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "supabase"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.KV.Backend = "memcached"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Reminders.Interval = "soon"
	require.Error(t, cfg.Validate())
}
