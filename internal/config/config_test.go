package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("PLURK_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLURK_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLURK_API_KEY", "key-123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "", cfg.Host)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, "", cfg.ArchivePath)
}

func TestLoadFull(t *testing.T) {
	t.Setenv("PLURK_API_KEY", "key-123")
	t.Setenv("PLURK_HOST", "staging.example.com")
	t.Setenv("PLURK_INSECURE", "true")
	t.Setenv("PLURK_USERNAME", "tester")
	t.Setenv("PLURK_TRACE_FILE", "/tmp/trace.log")
	t.Setenv("PLURK_ARCHIVE", "/tmp/archive.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging.example.com", cfg.Host)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, "tester", cfg.Username)
	assert.Equal(t, "/tmp/trace.log", cfg.TraceFile)
	assert.Equal(t, "/tmp/archive.db", cfg.ArchivePath)
}

func TestLoadBadInsecure(t *testing.T) {
	t.Setenv("PLURK_API_KEY", "key-123")
	t.Setenv("PLURK_INSECURE", "maybe")

	_, err := Load()
	assert.Error(t, err)
}
