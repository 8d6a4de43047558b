package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Engine names accepted in EnginesConfig.Order.
const (
	EngineDuckDuckGo = "duckduckgo"
	EngineBing       = "bing"
	EngineStartPage  = "startpage"
	EngineHeadless   = "headless"
)

// Config is the top-level application configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Engines EnginesConfig `yaml:"engines"`
	Breaker BreakerConfig `yaml:"breaker"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// SearchConfig holds request pacing and HTTP settings shared by all engines.
type SearchConfig struct {
	MinDelay    string `yaml:"min_delay"`    // duration string, spacing between outbound requests
	HTTPTimeout string `yaml:"http_timeout"` // duration string, per-request timeout
	UserAgent   string `yaml:"user_agent"`
	MaxBodyKB   int    `yaml:"max_body_kb"` // cap on bytes read from a result page
}

// MinDelayDuration parses MinDelay, falling back to the default on error.
func (c SearchConfig) MinDelayDuration() time.Duration {
	return parseDuration(c.MinDelay, 2*time.Second)
}

// HTTPTimeoutDuration parses HTTPTimeout, falling back to the default on error.
func (c SearchConfig) HTTPTimeoutDuration() time.Duration {
	return parseDuration(c.HTTPTimeout, 15*time.Second)
}

// EnginesConfig holds the engine priority order and per-engine toggles.
type EnginesConfig struct {
	// Order lists engine names in fallback priority order.
	Order    []string       `yaml:"order"`
	Headless HeadlessConfig `yaml:"headless"`
}

// HeadlessConfig holds settings for the browser-rendered engine. It is off by
// default: it needs a local Chrome and is an order of magnitude slower than
// the plain HTTP engines.
type HeadlessConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // duration string, page render budget
}

// TimeoutDuration parses Timeout, falling back to the default on error.
func (c HeadlessConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// BreakerConfig holds per-engine circuit breaker settings.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before an engine's
	// circuit opens.
	MaxFailures uint32 `yaml:"max_failures"`
	Timeout     string `yaml:"timeout"`  // duration string, open-state cooldown
	Interval    string `yaml:"interval"` // duration string, closed-state count reset
}

// TimeoutDuration parses Timeout, falling back to the default on error.
func (c BreakerConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// IntervalDuration parses Interval, falling back to the default on error.
func (c BreakerConfig) IntervalDuration() time.Duration {
	return parseDuration(c.Interval, 60*time.Second)
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	return &Config{
		Search: SearchConfig{
			MinDelay:    "2s",
			HTTPTimeout: "15s",
			UserAgent:   defaultUserAgent,
			MaxBodyKB:   512,
		},
		Engines: EnginesConfig{
			Order: []string{EngineDuckDuckGo, EngineBing, EngineStartPage},
			Headless: HeadlessConfig{
				Enabled: false,
				Timeout: "30s",
			},
		},
		Breaker: BreakerConfig{
			MaxFailures: 5,
			Timeout:     "30s",
			Interval:    "60s",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// defaultUserAgent is a realistic desktop browser User-Agent. Engines block
// obvious non-browser agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load reads the config file at path, applies environment overrides, and
// validates the result. A missing file is not an error: defaults plus
// environment overrides are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies FREESEARCH_* environment variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FREESEARCH_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("FREESEARCH_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("FREESEARCH_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("FREESEARCH_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("FREESEARCH_USER_AGENT"); v != "" {
		cfg.Search.UserAgent = v
	}
	if v := os.Getenv("FREESEARCH_MIN_DELAY"); v != "" {
		cfg.Search.MinDelay = v
	}
	if v := os.Getenv("FREESEARCH_HTTP_TIMEOUT"); v != "" {
		cfg.Search.HTTPTimeout = v
	}
	if v := os.Getenv("FREESEARCH_ENGINE_ORDER"); v != "" {
		order := strings.Split(v, ",")
		for i := range order {
			order[i] = strings.TrimSpace(order[i])
		}
		cfg.Engines.Order = order
	}
	if v := os.Getenv("FREESEARCH_HEADLESS"); v == "true" {
		cfg.Engines.Headless.Enabled = true
	}
}

// Validate checks cfg for values that would misbehave at runtime.
func Validate(cfg *Config) error {
	if len(cfg.Engines.Order) == 0 {
		return fmt.Errorf("engines.order must not be empty")
	}
	seen := make(map[string]bool, len(cfg.Engines.Order))
	for _, name := range cfg.Engines.Order {
		switch name {
		case EngineDuckDuckGo, EngineBing, EngineStartPage, EngineHeadless:
		default:
			return fmt.Errorf("engines.order: unknown engine %q", name)
		}
		if seen[name] {
			return fmt.Errorf("engines.order: duplicate engine %q", name)
		}
		seen[name] = true
	}
	for field, v := range map[string]string{
		"search.min_delay":    cfg.Search.MinDelay,
		"search.http_timeout": cfg.Search.HTTPTimeout,
		"breaker.timeout":     cfg.Breaker.Timeout,
		"breaker.interval":    cfg.Breaker.Interval,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if cfg.Search.MaxBodyKB <= 0 {
		return fmt.Errorf("search.max_body_kb must be positive")
	}
	if cfg.Search.UserAgent == "" {
		return fmt.Errorf("search.user_agent must not be empty")
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
