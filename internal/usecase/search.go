package usecase

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
	"github.com/iddy-ani/gpt-researcher/internal/infra/tracer"
)

// Waiter paces outbound requests. Satisfied by *Pacer.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Searcher tries engines in priority order until one yields results.
type Searcher struct {
	engines []domain.SearchEngine
	pacer   Waiter
	logger  *slog.Logger
}

// NewSearcher creates the fallback orchestrator. Engines are tried in the
// order given.
func NewSearcher(engines []domain.SearchEngine, pacer Waiter, logger *slog.Logger) *Searcher {
	return &Searcher{
		engines: engines,
		pacer:   pacer,
		logger:  logger,
	}
}

// Search paces once, then walks the engines in priority order. The first
// engine that returns a non-empty result list wins; its results are returned
// as-is, never merged with another engine's. Engine failures are logged and
// swallowed. An empty result list from an engine also falls through to the
// next one: a blocked or redesigned result page is indistinguishable from a
// genuine zero-hit query at this layer. When every engine fails or comes back
// empty the caller gets an empty list, not an error.
func (s *Searcher) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	query = query.Normalize()
	if query.Query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if len(s.engines) == 0 {
		return nil, domain.ErrNoEngines
	}

	searchID := ulid.Make().String()
	log := s.logger.With("search_id", searchID)

	ctx, span := tracer.StartSpan(ctx, "search.fallback")
	defer span.End()
	span.SetAttributes(
		tracer.StringAttr("search.id", searchID),
		tracer.StringAttr("search.query", query.Query),
		tracer.IntAttr("search.max_results", query.MaxResults),
	)

	if err := s.pacer.Wait(ctx); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	for _, eng := range s.engines {
		results, err := eng.Search(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				tracer.RecordError(span, ctx.Err())
				return nil, ctx.Err()
			}
			log.Warn("search engine failed", "engine", eng.Name(), "error", err)
			continue
		}
		if len(results) == 0 {
			log.Debug("search engine returned no results", "engine", eng.Name())
			continue
		}
		if len(results) > query.MaxResults {
			results = results[:query.MaxResults]
		}

		log.Info("search succeeded", "engine", eng.Name(), "results", len(results))
		span.SetAttributes(
			tracer.StringAttr("search.engine", eng.Name()),
			tracer.IntAttr("search.results", len(results)),
		)
		tracer.SetOK(span)
		return results, nil
	}

	log.Info("all search engines exhausted", "query", query.Query)
	span.SetAttributes(tracer.IntAttr("search.results", 0))
	return []domain.SearchResult{}, nil
}
