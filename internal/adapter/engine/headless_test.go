package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

const googlePage = `<html><body>
<div class="g">
  <a href="https://example.com/go"><h3>Go language</h3></a>
  <div class="VwiC3b">Go is an open source language.</div>
</div>
<div class="g">
  <a href="https://example.com/gopher"><h3>Gopher</h3></a>
  <div class="VwiC3b">A burrowing rodent.</div>
</div>
</body></html>`

func TestParseRendered(t *testing.T) {
	results, err := parseRendered(googlePage, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go language", results[0].Title)
	assert.Equal(t, "https://example.com/go", results[0].URL)
	assert.Equal(t, "Go is an open source language.", results[0].Snippet)
}

func TestParseRenderedTruncates(t *testing.T) {
	results, err := parseRendered(googlePage, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestParseRenderedCaptchaIsError(t *testing.T) {
	page := `<html><body><form id="captcha-form"></form></body></html>`
	_, err := parseRendered(page, 10)
	assert.Error(t, err)
}

func TestParseRenderedUnusualTrafficIsError(t *testing.T) {
	page := `<html><body>Our systems have detected unusual traffic from your computer network.</body></html>`
	_, err := parseRendered(page, 10)
	assert.Error(t, err)
}

func TestHeadlessEmptyQuery(t *testing.T) {
	e := NewHeadless(HeadlessConfig{Timeout: time.Second}, newTestLogger())
	_, err := e.Search(context.Background(), domain.SearchQuery{Query: ""})
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestHeadlessName(t *testing.T) {
	e := NewHeadless(HeadlessConfig{}, newTestLogger())
	assert.Equal(t, "headless", e.Name())
}
