package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

const googleBaseURL = "https://www.google.com"

// HeadlessConfig configures the browser-rendered engine.
type HeadlessConfig struct {
	// Timeout is the page render budget per search.
	Timeout time.Duration
	// UserAgent overrides the browser's default agent string.
	UserAgent string
}

// Headless renders a Google result page in headless Chrome and scrapes the
// rendered DOM. Google serves little to plain HTTP clients, so this engine
// only makes sense as a last resort, and only when a local Chrome is
// available. It is disabled by default in configuration.
type Headless struct {
	timeout   time.Duration
	userAgent string
	baseURL   string
	logger    *slog.Logger

	// newTab lets tests substitute a fake browser session.
	newTab func(ctx context.Context) (context.Context, context.CancelFunc)
}

// NewHeadless creates the headless Google engine. Chrome is launched lazily
// on the first search and torn down when it completes.
func NewHeadless(cfg HeadlessConfig, logger *slog.Logger) *Headless {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Headless{
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		baseURL:   googleBaseURL,
		logger:    logger,
		newTab:    nil,
	}
}

func (e *Headless) Name() string { return "headless" }

func (e *Headless) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	query = query.Normalize()
	if query.Query == "" {
		return nil, domain.ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tabCtx, tabCancel := e.tab(ctx)
	defer tabCancel()

	searchURL := fmt.Sprintf("%s/search?q=%s&num=%d", e.baseURL, url.QueryEscape(query.Query), query.MaxResults)

	var html string
	err := chromedp.Run(tabCtx,
		emulation.SetUserAgentOverride(e.userAgent),
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("headless: render %s: %w", searchURL, err)
	}

	results, err := parseRendered(html, query.MaxResults)
	if err != nil {
		e.logger.Warn("headless engine parse failed", "query", query.Query, "error", err)
		return nil, fmt.Errorf("headless: %w", err)
	}
	return results, nil
}

// parseRendered scrapes a rendered Google result page.
func parseRendered(html string, max int) ([]domain.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered page: %w", err)
	}
	if isBlockPage(doc) {
		return nil, fmt.Errorf("captcha page returned")
	}

	return collect(doc, "div.g", max, func(s *goquery.Selection) domain.SearchResult {
		return domain.SearchResult{
			Title:   text(s, "h3"),
			URL:     href(s, "a"),
			Snippet: text(s, "div[data-sncf], div.VwiC3b"),
		}
	}), nil
}

// tab allocates a fresh headless Chrome tab, or a test-injected session.
func (e *Headless) tab(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.newTab != nil {
		return e.newTab(ctx)
	}

	// Copy default options to avoid mutating the package-level slice.
	opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
	copy(opts, chromedp.DefaultExecAllocatorOptions[:])
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 720),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	return tabCtx, func() {
		tabCancel()
		allocCancel()
	}
}

// isBlockPage detects Google's captcha interstitial in the rendered DOM.
func isBlockPage(doc *goquery.Document) bool {
	if doc.Find("form#captcha-form, div.g-recaptcha, #recaptcha").Length() > 0 {
		return true
	}
	return strings.Contains(doc.Find("body").Text(), "unusual traffic from your computer network")
}

var _ domain.SearchEngine = (*Headless)(nil)
