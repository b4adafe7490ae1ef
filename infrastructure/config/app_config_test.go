package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todolists.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppConfigFromEnv_Defaults(t *testing.T) {
	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.HTTPLogPath)
	assert.Equal(t, "./todolists.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Database.EnableWAL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, "todolists_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 15*time.Minute, cfg.Session.PruneInterval)
}

func TestLoadAppConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("DB_ENABLE_WAL", "off")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_STORE", "MEMORY")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SESSION_SECURE_COOKIE", "yes")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Database.EnableWAL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.SecureCookie)
}

func TestLoadAppConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("DB_ENABLE_WAL", "maybe")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Database.EnableWAL)
}

func TestLoadAppConfig_File(t *testing.T) {
	path := writeConfigFile(t, `
[http]
addr = ":7000"
log_path = "http.log"

[database]
path = "/tmp/lists.db"
max_open_conns = 8
conn_max_lifetime = "10m"

[logging]
level = "warn"
format = "text"

[session]
store = "memory"
ttl = "2h"
prune_interval = "1m"
`)

	cfg, err := LoadAppConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, "http.log", cfg.HTTPLogPath)
	assert.Equal(t, "/tmp/lists.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.PruneInterval)
	assert.Equal(t, "todolists_session", cfg.Session.CookieName)
}

func TestLoadAppConfig_EnvBeatsFile(t *testing.T) {
	path := writeConfigFile(t, `
[http]
addr = ":7000"
`)
	t.Setenv("HTTP_ADDR", ":7001")

	cfg, err := LoadAppConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.HTTPAddr)
}

func TestLoadAppConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeConfigFile(t, "[session]\nttl = \"soon\"\n")
		_, err := LoadAppConfig(path)
		assert.Error(t, err)
	})
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("Y", false))
	assert.False(t, parseBool("off", true))
	assert.True(t, parseBool("unknown", true))
}
