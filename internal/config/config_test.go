package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestParseDefaults(t *testing.T) {
	unsetenv(t, "DISCORD_TOKEN", "COMMAND_PREFIX", "SESSION_TTL", "CATALOG_PATH", "LOG_LEVEL")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "&", cfg.Prefix)
	assert.Equal(t, 180*time.Second, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, "data/blacklist.json", cfg.BlacklistPath)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.LogMaxSizeMB)
	assert.Equal(t, 3, cfg.RESTMaxAttempts)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv("COMMAND_PREFIX", "!")
	t.Setenv("SESSION_TTL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "!", cfg.Prefix)
	assert.Equal(t, 30*time.Second, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestParseRejects(t *testing.T) {
	tests := map[string][2]string{
		"zero ttl":       {"SESSION_TTL", "0s"},
		"bad duration":   {"SESSION_SWEEP_INTERVAL", "soon"},
		"bad int":        {"REST_MAX_ATTEMPTS", "many"},
		"negative sweep": {"SESSION_SWEEP_INTERVAL", "-1s"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COMMAND_PREFIX=?\n"), 0o644))
	unsetenv(t, "COMMAND_PREFIX")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "?", cfg.Prefix)
}
