package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetEnv(t *testing.T) {
	t.Helper()
	previous := Env
	Env = GetDefaultConfig()
	t.Cleanup(func() {
		Env = previous
	})
}

func TestLoadEnv(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("CACHING", "true")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("NO_PROXY", "localhost,.internal")
	t.Setenv("EXT_CONFIG_PATH", "/etc/pitlane/ext-cfg.yaml")
	t.Setenv("DEBUG_DUMP", "1")
	t.Setenv("CONCURRENCY", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "sqlite")

	require.NoError(t, LoadEnv())

	assert.Equal(t, "db.internal", Env.DBHost)
	assert.Equal(t, 3307, Env.DBPort)
	assert.True(t, Env.Caching)
	assert.Equal(t, "secret", Env.DBPassword)
	assert.Equal(t, "localhost,.internal", Env.NoProxy)
	assert.Equal(t, "/etc/pitlane/ext-cfg.yaml", Env.ExtractorConfigPath)
	assert.True(t, Env.DebugDump)
	assert.Equal(t, 8, Env.Concurrency)
	assert.Equal(t, "debug", Env.LogLevel)
	assert.Equal(t, "sqlite", Env.DBDriver)
	assert.Equal(t, "pitlane", Env.DBName, "unset values keep their default")
}

func TestLoadEnvInvalidValues(t *testing.T) {
	tests := map[string]string{
		"DB_DRIVER":   "postgres",
		"DB_PORT":     "mysql",
		"CACHING":     "maybe",
		"DEBUG_DUMP":  "yes please",
		"CONCURRENCY": "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			resetEnv(t)
			t.Setenv(key, value)
			assert.ErrorContains(t, LoadEnv(), key)
		})
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 3306, cfg.DBPort)
	assert.Equal(t, "ext-cfg.yaml", cfg.ExtractorConfigPath)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Caching)
	assert.NotSame(t, cfg, GetDefaultConfig())
}
