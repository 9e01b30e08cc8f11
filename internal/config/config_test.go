package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MENTORDOC_CONFIG", "MENTORDOC_API_URL", "MENTORDOC_TIMEOUT_SECONDS", "REDIS_URL",
		"MENTORDOC_REDIS_PREFIX", "MENTORDOC_STATE_FILE", "MEILI_URL", "MEILI_SEARCH_KEY",
		"MENTORDOC_LOG_LEVEL", "MENTORDOC_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.RedisURL, "optional backends default to disabled")
	assert.Empty(t, cfg.MeiliURL, "optional backends default to disabled")
	assert.NotEmpty(t, cfg.StateFile)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mentordoc.yaml")
	content := "api_url: https://docs.example.com\ntimeout_seconds: 5\nmeili_url: http://meili:7700\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MENTORDOC_CONFIG", path)
	t.Setenv("MENTORDOC_LOG_LEVEL", "error")
	t.Setenv("MENTORDOC_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", cfg.APIURL)
	assert.Equal(t, "http://meili:7700", cfg.MeiliURL)
	assert.Equal(t, "error", cfg.LogLevel, "environment overrides the file")
	assert.Equal(t, 5*time.Second, cfg.Timeout, "an invalid env value keeps the file value")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MENTORDOC_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
