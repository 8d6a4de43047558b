package retriever

import (
	"context"
	"log/slog"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
	"github.com/iddy-ani/gpt-researcher/internal/infra/tracer"
)

// SearchService is the orchestrated search the retriever runs against.
// Satisfied by *usecase.Searcher.
type SearchService interface {
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error)
}

// FreeRetriever is the research-pipeline-facing shim over the free web
// search. The pipeline constructs one per query and calls Search with a
// result budget; it must never crash the pipeline, so every failure mode
// collapses to an empty source list.
type FreeRetriever struct {
	query    string
	domains  []string
	searcher SearchService
	logger   *slog.Logger
}

// NewFreeRetriever binds a query to the search service. The domain filter
// list is part of the framework's retriever contract; the free search does
// not implement domain filtering and ignores it.
func NewFreeRetriever(query string, domains []string, searcher SearchService, logger *slog.Logger) *FreeRetriever {
	return &FreeRetriever{
		query:    query,
		domains:  domains,
		searcher: searcher,
		logger:   logger,
	}
}

// Search runs the fallback search and normalizes results into the pipeline
// shape. It never returns an error or panics: a failed search is an empty
// list, which the pipeline reports as "no sources found".
func (r *FreeRetriever) Search(ctx context.Context, maxResults int) (sources []domain.Source) {
	ctx, span := tracer.StartSpan(ctx, "retriever.search")
	defer span.End()
	span.SetAttributes(tracer.StringAttr("retriever.query", r.query))

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("retriever recovered from panic", "query", r.query, "panic", rec)
			sources = []domain.Source{}
		}
	}()

	results, err := r.searcher.Search(ctx, domain.SearchQuery{
		Query:      r.query,
		MaxResults: maxResults,
	})
	if err != nil {
		tracer.RecordError(span, err)
		r.logger.Error("free search failed", "query", r.query, "error", err)
		return []domain.Source{}
	}

	sources = ToSources(results)
	span.SetAttributes(tracer.IntAttr("retriever.sources", len(sources)))
	tracer.SetOK(span)
	r.logger.Info("free search returned sources", "query", r.query, "sources", len(sources))
	return sources
}

var _ domain.Retriever = (*FreeRetriever)(nil)
