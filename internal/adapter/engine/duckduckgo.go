package engine

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

const duckduckgoBaseURL = "https://html.duckduckgo.com"

// DuckDuckGo scrapes the JavaScript-free DuckDuckGo HTML endpoint. It is the
// highest-priority engine: the /html/ endpoint is stable and tolerant of
// scripted clients.
type DuckDuckGo struct {
	fetcher *fetcher
	baseURL string
}

// NewDuckDuckGo creates the DuckDuckGo HTML engine.
func NewDuckDuckGo(opts Options) *DuckDuckGo {
	return &DuckDuckGo{
		fetcher: newFetcher(opts),
		baseURL: duckduckgoBaseURL,
	}
}

func (e *DuckDuckGo) Name() string { return "duckduckgo" }

func (e *DuckDuckGo) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	query = query.Normalize()
	if query.Query == "" {
		return nil, domain.ErrEmptyQuery
	}

	doc, err := e.fetcher.document(ctx, fmt.Sprintf("%s/html/?q=%s", e.baseURL, url.QueryEscape(query.Query)))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}

	return collect(doc, "div.result", query.MaxResults, func(s *goquery.Selection) domain.SearchResult {
		return domain.SearchResult{
			Title: text(s, "a.result__a"),
			// Raw href as returned by the engine; redirect links are not
			// resolved or followed.
			URL:     href(s, "a.result__a"),
			Snippet: text(s, "a.result__snippet"),
		}
	}), nil
}

var _ domain.SearchEngine = (*DuckDuckGo)(nil)
