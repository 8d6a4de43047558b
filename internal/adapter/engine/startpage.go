package engine

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

const startpageBaseURL = "https://www.startpage.com"

// StartPage scrapes startpage.com, which proxies Google results. It blocks
// aggressively, so it sits last among the HTTP engines.
type StartPage struct {
	fetcher *fetcher
	baseURL string
}

// NewStartPage creates the StartPage engine.
func NewStartPage(opts Options) *StartPage {
	return &StartPage{
		fetcher: newFetcher(opts),
		baseURL: startpageBaseURL,
	}
}

func (e *StartPage) Name() string { return "startpage" }

func (e *StartPage) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	query = query.Normalize()
	if query.Query == "" {
		return nil, domain.ErrEmptyQuery
	}

	doc, err := e.fetcher.document(ctx, fmt.Sprintf("%s/sp/search?query=%s", e.baseURL, url.QueryEscape(query.Query)))
	if err != nil {
		return nil, fmt.Errorf("startpage: %w", err)
	}

	return collect(doc, "div.w-gl__result", query.MaxResults, func(s *goquery.Selection) domain.SearchResult {
		return domain.SearchResult{
			Title:   text(s, "a.w-gl__result-title"),
			URL:     href(s, "a.w-gl__result-title"),
			Snippet: text(s, "p.w-gl__description"),
		}
	}), nil
}

var _ domain.SearchEngine = (*StartPage)(nil)
