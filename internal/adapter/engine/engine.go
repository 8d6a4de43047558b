// Package engine implements the per-engine scraping adapters behind
// domain.SearchEngine. Each engine encapsulates one public search engine's
// URL shape and result-page selectors so that a markup change in one engine
// cannot affect the others.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

// Default fetch settings, shared by all scraping engines.
const (
	defaultTimeout = 15 * time.Second
	defaultMaxBody = 512 * 1024

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.5"
)

// Options configures the HTTP behavior shared by the scraping engines.
// Zero values fall back to defaults.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	MaxBody   int64 // cap on bytes read from a result page
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxBody <= 0 {
		o.MaxBody = defaultMaxBody
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// fetcher issues browser-like GET requests and parses the response body.
type fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	logger    *slog.Logger
}

func newFetcher(opts Options) *fetcher {
	opts = opts.withDefaults()
	return &fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   opts.Timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBody,
		logger:    opts.Logger,
	}
}

// document GETs rawURL with browser-like headers and parses the HTML body.
// Non-2xx responses are an error; a page that parses but matches nothing is
// the caller's concern.
func (f *fetcher) document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Engines actively block obvious non-browser agents.
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", domain.ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return doc, nil
}

// collect walks the result containers matched by containerSel in document
// order, extracting one SearchResult per container via extract, stopping at
// max. Containers whose sub-elements are missing still produce a result with
// empty fields; dropping unusable records is the normalizer's job.
func collect(doc *goquery.Document, containerSel string, max int, extract func(*goquery.Selection) domain.SearchResult) []domain.SearchResult {
	var results []domain.SearchResult
	doc.Find(containerSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(results) >= max {
			return false
		}
		results = append(results, extract(s))
		return true
	})
	return results
}

func text(s *goquery.Selection, sel string) string {
	return trimmed(s.Find(sel).First().Text())
}

func href(s *goquery.Selection, sel string) string {
	v, _ := s.Find(sel).First().Attr("href")
	return v
}

// trimmed collapses runs of whitespace; scraped snippets are full of
// newlines and padding.
func trimmed(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
