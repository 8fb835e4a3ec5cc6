package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openock/contexture/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contexture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	loader := NewLoader(nil)

	path := writeConfigFile(t, `
logLevel: debug
maxTokens: 4000
targetContextChars: 12000
useTimeService: true
timezone: Europe/Berlin
ttls:
  github_repos: 7200
`)

	cfg, err := loader.LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4000, cfg.MaxTokens)
	assert.Equal(t, 12000, cfg.TargetContextChars)
	assert.True(t, cfg.UseTimeService)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, 7200, cfg.TTLs["github_repos"])
}

func TestLoadFromFilePartial(t *testing.T) {
	loader := NewLoader(nil)

	cfg, err := loader.LoadFromFile(writeConfigFile(t, "maxTokens: 500\n"))

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxTokens)
	assert.Equal(t, "info", cfg.LogLevel, "unset fields keep defaults")
	assert.Equal(t, 8000, cfg.TargetContextChars)
}

func TestLoadFromFileMissing(t *testing.T) {
	loader := NewLoader(nil)

	cfg, err := loader.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err, "a missing config file is not an error")
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFileInvalid(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.LoadFromFile(writeConfigFile(t, "maxTokens: [not a number"))

	assert.Error(t, err)
}

func TestCacheTTLs(t *testing.T) {
	t.Run("defaults pass through", func(t *testing.T) {
		ttls := Default().CacheTTLs()
		assert.Equal(t, cache.DefaultTTLs[cache.Repos], ttls[cache.Repos])
		assert.Len(t, ttls, len(cache.DefaultTTLs))
	})

	t.Run("overrides win", func(t *testing.T) {
		cfg := Default()
		cfg.TTLs = map[string]int{"github_repos": 30, "calendar_events": 0}

		ttls := cfg.CacheTTLs()

		assert.Equal(t, 30*time.Second, ttls[cache.Repos])
		assert.Equal(t, cache.DefaultTTLs[cache.CalendarEvents], ttls[cache.CalendarEvents],
			"non-positive overrides are ignored")
	})
}
