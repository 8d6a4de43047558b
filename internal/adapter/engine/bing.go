package engine

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

const bingBaseURL = "https://www.bing.com"

// Bing scrapes the standard Bing result page. Bing serves full results to
// plain HTTP clients as long as the headers look like a browser.
type Bing struct {
	fetcher *fetcher
	baseURL string
}

// NewBing creates the Bing engine.
func NewBing(opts Options) *Bing {
	return &Bing{
		fetcher: newFetcher(opts),
		baseURL: bingBaseURL,
	}
}

func (e *Bing) Name() string { return "bing" }

func (e *Bing) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	query = query.Normalize()
	if query.Query == "" {
		return nil, domain.ErrEmptyQuery
	}

	doc, err := e.fetcher.document(ctx, fmt.Sprintf("%s/search?q=%s", e.baseURL, url.QueryEscape(query.Query)))
	if err != nil {
		return nil, fmt.Errorf("bing: %w", err)
	}

	return collect(doc, "li.b_algo", query.MaxResults, func(s *goquery.Selection) domain.SearchResult {
		return domain.SearchResult{
			Title:   text(s, "h2"),
			URL:     href(s, "h2 a"),
			Snippet: text(s, "p"),
		}
	}), nil
}

var _ domain.SearchEngine = (*Bing)(nil)
