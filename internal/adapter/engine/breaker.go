package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// BreakerConfig configures the per-engine circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before a half-open probe.
	Timeout time.Duration
	// Interval is the cyclic period of the closed state for clearing failure
	// counts. If 0, failures never reset until the circuit opens.
	Interval time.Duration
}

// BreakerEngine wraps a SearchEngine with circuit breaker protection. An
// engine that keeps failing (blocked, markup change, outage) fails fast for
// the cooldown period, so the orchestrator moves on to the next engine
// without paying the request timeout every call.
type BreakerEngine struct {
	inner   domain.SearchEngine
	breaker *gobreaker.CircuitBreaker[[]domain.SearchResult]
	logger  *slog.Logger
}

// NewBreakerEngine wraps inner with a circuit breaker. Zero-valued cfg fields
// use defaults.
func NewBreakerEngine(inner domain.SearchEngine, cfg BreakerConfig, logger *slog.Logger) *BreakerEngine {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[[]domain.SearchResult](gobreaker.Settings{
		Name:        "engine:" + inner.Name(),
		MaxRequests: 1, // one probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &BreakerEngine{
		inner:   inner,
		breaker: cb,
		logger:  logger,
	}
}

// Name implements domain.SearchEngine.
func (e *BreakerEngine) Name() string { return e.inner.Name() }

// Search implements domain.SearchEngine. Calls are routed through the
// circuit breaker; an open circuit surfaces as domain.ErrEngineOpen so the
// orchestrator treats it like any other engine failure.
func (e *BreakerEngine) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	results, err := e.breaker.Execute(func() ([]domain.SearchResult, error) {
		return e.inner.Search(ctx, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", e.inner.Name(), domain.ErrEngineOpen)
		}
		return nil, err
	}
	return results, nil
}

// State returns the current breaker state for monitoring.
func (e *BreakerEngine) State() gobreaker.State {
	return e.breaker.State()
}

var _ domain.SearchEngine = (*BreakerEngine)(nil)
