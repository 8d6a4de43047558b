package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 2*time.Second, cfg.Search.MinDelayDuration())
	assert.Equal(t, 15*time.Second, cfg.Search.HTTPTimeoutDuration())
	assert.Equal(t, []string{EngineDuckDuckGo, EngineBing, EngineStartPage}, cfg.Engines.Order)
	assert.False(t, cfg.Engines.Headless.Enabled)
	assert.NotEmpty(t, cfg.Search.UserAgent)
	require.NoError(t, Validate(cfg))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
search:
  min_delay: 500ms
  user_agent: test-agent
engines:
  order: [bing, duckduckgo]
logger:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, data, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.MinDelayDuration())
	assert.Equal(t, "test-agent", cfg.Search.UserAgent)
	assert.Equal(t, []string{EngineBing, EngineDuckDuckGo}, cfg.Engines.Order)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// Unset fields keep defaults.
	assert.Equal(t, 15*time.Second, cfg.Search.HTTPTimeoutDuration())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FREESEARCH_LOGGER_LEVEL", "error")
	t.Setenv("FREESEARCH_MIN_DELAY", "3s")
	t.Setenv("FREESEARCH_ENGINE_ORDER", "startpage, bing")

	cfg := Defaults()
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "error", cfg.Logger.Level)
	assert.Equal(t, 3*time.Second, cfg.Search.MinDelayDuration())
	assert.Equal(t, []string{EngineStartPage, EngineBing}, cfg.Engines.Order)
}

func TestValidateRejectsUnknownEngine(t *testing.T) {
	cfg := Defaults()
	cfg.Engines.Order = []string{"altavista"}
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsDuplicateEngine(t *testing.T) {
	cfg := Defaults()
	cfg.Engines.Order = []string{EngineBing, EngineBing}
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadDuration(t *testing.T) {
	cfg := Defaults()
	cfg.Search.MinDelay = "soon"
	assert.Error(t, Validate(cfg))
}

func TestDurationFallbacks(t *testing.T) {
	c := SearchConfig{MinDelay: "garbage", HTTPTimeout: ""}
	assert.Equal(t, 2*time.Second, c.MinDelayDuration())
	assert.Equal(t, 15*time.Second, c.HTTPTimeoutDuration())
}
