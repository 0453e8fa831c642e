package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 8085, config.Server.Port)
	assert.Equal(t, 10, config.Scraper.MaxPages)
	assert.Equal(t, "claude", config.LLM.Provider)
	assert.True(t, config.Maintenance.Enabled)
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	first := writeConfig(t, "first.toml", `
[server]
port = 9000

[scraper]
max_pages = 3
`)
	second := writeConfig(t, "second.toml", `
[server]
port = 9100
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port, "second file wins")
	assert.Equal(t, 3, config.Scraper.MaxPages, "first file's value survives")
	assert.Equal(t, "localhost", config.Server.Host, "defaults fill the rest")
}

func TestLoadFromFiles_DurationFields(t *testing.T) {
	path := writeConfig(t, "merx.toml", `
[scraper]
request_timeout = "5s"
request_delay = "250ms"

[orchestrator]
pause_poll_interval = "100ms"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "5s", config.Scraper.RequestTimeout)
	assert.Equal(t, "250ms", config.Scraper.RequestDelay)
	assert.Equal(t, "100ms", config.Orchestrator.PausePollInterval)

	// Duration settings are kept as strings for TOML decoding and parsed
	// at service init; both the loaded and the default values must parse.
	for _, value := range []string{
		config.Scraper.RequestTimeout,
		config.Scraper.RequestDelay,
		config.Orchestrator.PausePollInterval,
		NewDefaultConfig().Scraper.RequestTimeout,
		NewDefaultConfig().Scraper.RequestDelay,
		NewDefaultConfig().Orchestrator.PausePollInterval,
	} {
		d, err := time.ParseDuration(value)
		require.NoError(t, err)
		assert.Positive(t, d)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/merx.toml")
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MERX_SERVER_PORT", "9200")
	t.Setenv("MERX_LLM_PROVIDER", "gemini")
	t.Setenv("MERX_SCRAPER_MAX_PAGES", "4")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, 4, config.Scraper.MaxPages)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 9300, "0.0.0.0")
	assert.Equal(t, 9300, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 9300, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}
