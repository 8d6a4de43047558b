package domain

import (
	"context"
	"strings"
)

// DefaultMaxResults is used when a query does not request a result count.
const DefaultMaxResults = 10

// SearchQuery is a single search request. Created per call, never mutated.
type SearchQuery struct {
	Query      string
	MaxResults int
}

// Normalize returns a copy with the query trimmed and the result count
// defaulted. The original value is left untouched.
func (q SearchQuery) Normalize() SearchQuery {
	out := q
	out.Query = strings.TrimSpace(out.Query)
	if out.MaxResults <= 0 {
		out.MaxResults = DefaultMaxResults
	}
	return out
}

// SearchResult is a single parsed search hit, engine-agnostic. Any field may
// be empty when the engine's markup only partially matched.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Source is the record shape the downstream research pipeline consumes.
// Body is the title and snippet joined by a blank line.
type Source struct {
	Href string `json:"href"`
	Body string `json:"body"`
}

// SearchEngine abstracts one public search engine's request/parse logic.
// Implementations are stateless between calls and must return results in the
// engine's own ranking order, at most MaxResults of them. A page that matches
// none of the expected selectors is an empty result, not an error.
type SearchEngine interface {
	// Name returns the engine identifier (e.g. "duckduckgo").
	Name() string
	// Search fetches and parses one result page for the query.
	Search(ctx context.Context, query SearchQuery) ([]SearchResult, error)
}

// Retriever is the pluggable search backend contract the research pipeline
// expects: constructed around a query, searched by maximum result count.
// Search never fails; a retriever that cannot produce sources returns an
// empty slice so the pipeline degrades instead of crashing.
type Retriever interface {
	Search(ctx context.Context, maxResults int) []Source
}
