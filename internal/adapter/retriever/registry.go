package retriever

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/iddy-ani/gpt-researcher/internal/adapter/engine"
	"github.com/iddy-ani/gpt-researcher/internal/domain"
	"github.com/iddy-ani/gpt-researcher/internal/infra/config"
	"github.com/iddy-ani/gpt-researcher/internal/usecase"
)

// retrieverEnvVar selects which retriever implementation the surrounding
// framework instantiates.
const retrieverEnvVar = "RETRIEVER"

// Factory builds a retriever for one query.
type Factory func(query string, domains []string) (domain.Retriever, error)

// Registry maps retriever names to factories. The free scraping retriever is
// registered under "free", "custom", and "scraper"; the HTTP endpoint
// retriever under "endpoint". All free retrievers built from one Registry
// share a single Searcher, so the request pacer stays process-wide.
type Registry struct {
	logger *slog.Logger

	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry builds a Registry wired from cfg: engines in configured
// priority order, each behind a circuit breaker, in front of a shared pacer.
func NewRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	searcher, err := buildSearcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		logger:    logger,
		factories: make(map[string]Factory),
	}

	free := func(query string, domains []string) (domain.Retriever, error) {
		return NewFreeRetriever(query, domains, searcher, logger), nil
	}
	for _, name := range []string{"free", "custom", "scraper"} {
		r.Register(name, free)
	}
	r.Register("endpoint", func(query string, domains []string) (domain.Retriever, error) {
		return NewEndpointRetriever(query, domains, logger)
	})

	return r, nil
}

// Register adds or replaces a named factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// New builds the named retriever for a query.
func (r *Registry) New(name, query string, domains []string) (domain.Retriever, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoRetriever, name)
	}
	return f(query, domains)
}

// FromEnv builds the retriever named by the RETRIEVER environment variable,
// defaulting to the free scraping retriever.
func (r *Registry) FromEnv(query string, domains []string) (domain.Retriever, error) {
	name := os.Getenv(retrieverEnvVar)
	if name == "" {
		name = "free"
	}
	return r.New(name, query, domains)
}

// buildSearcher assembles the engine chain and pacer from configuration.
func buildSearcher(cfg *config.Config, logger *slog.Logger) (*usecase.Searcher, error) {
	opts := engine.Options{
		UserAgent: cfg.Search.UserAgent,
		Timeout:   cfg.Search.HTTPTimeoutDuration(),
		MaxBody:   int64(cfg.Search.MaxBodyKB) * 1024,
		Logger:    logger,
	}
	breakerCfg := engine.BreakerConfig{
		MaxFailures: cfg.Breaker.MaxFailures,
		Timeout:     cfg.Breaker.TimeoutDuration(),
		Interval:    cfg.Breaker.IntervalDuration(),
	}

	var engines []domain.SearchEngine
	for _, name := range cfg.Engines.Order {
		var eng domain.SearchEngine
		switch name {
		case config.EngineDuckDuckGo:
			eng = engine.NewDuckDuckGo(opts)
		case config.EngineBing:
			eng = engine.NewBing(opts)
		case config.EngineStartPage:
			eng = engine.NewStartPage(opts)
		case config.EngineHeadless:
			if !cfg.Engines.Headless.Enabled {
				continue
			}
			eng = engine.NewHeadless(engine.HeadlessConfig{
				Timeout:   cfg.Engines.Headless.TimeoutDuration(),
				UserAgent: cfg.Search.UserAgent,
			}, logger)
		default:
			return nil, fmt.Errorf("unknown engine %q", name)
		}
		engines = append(engines, engine.NewBreakerEngine(eng, breakerCfg, logger))
	}
	if len(engines) == 0 {
		return nil, domain.ErrNoEngines
	}

	pacer := usecase.NewPacer(cfg.Search.MinDelayDuration())
	return usecase.NewSearcher(engines, pacer, logger), nil
}
