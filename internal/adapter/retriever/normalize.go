// Package retriever exposes the search pipeline through the retriever
// contract the downstream research framework instantiates: constructed
// around a query string, searched by maximum result count, never failing.
package retriever

import "github.com/iddy-ani/gpt-researcher/internal/domain"

// ToSources maps raw results into the pipeline-compatible shape:
// {href: url, body: title + "\n\n" + snippet}. Records with an empty title,
// url, or snippet are silently dropped so the pipeline never receives a
// source it cannot use. The generic {title, url, snippet} shape is
// domain.SearchResult itself and passes through untouched.
func ToSources(results []domain.SearchResult) []domain.Source {
	sources := make([]domain.Source, 0, len(results))
	for _, r := range results {
		if r.Title == "" || r.URL == "" || r.Snippet == "" {
			continue
		}
		sources = append(sources, domain.Source{
			Href: r.URL,
			Body: r.Title + "\n\n" + r.Snippet,
		})
	}
	return sources
}
