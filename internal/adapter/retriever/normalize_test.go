package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

func TestToSourcesShape(t *testing.T) {
	sources := ToSources([]domain.SearchResult{
		{Title: "T", URL: "U", Snippet: "S"},
	})
	require.Len(t, sources, 1)
	assert.Equal(t, domain.Source{Href: "U", Body: "T\n\nS"}, sources[0])
}

func TestToSourcesDropsEmptyFields(t *testing.T) {
	tests := []struct {
		name  string
		input domain.SearchResult
	}{
		{"empty title", domain.SearchResult{URL: "u", Snippet: "s"}},
		{"empty url", domain.SearchResult{Title: "A", Snippet: "B"}},
		{"empty snippet", domain.SearchResult{Title: "t", URL: "u"}},
		{"all empty", domain.SearchResult{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ToSources([]domain.SearchResult{tt.input}))
		})
	}
}

func TestToSourcesKeepsOrder(t *testing.T) {
	sources := ToSources([]domain.SearchResult{
		{Title: "first", URL: "1", Snippet: "s"},
		{Title: "dropped", URL: "", Snippet: "s"},
		{Title: "second", URL: "2", Snippet: "s"},
	})
	require.Len(t, sources, 2)
	assert.Equal(t, "1", sources[0].Href)
	assert.Equal(t, "2", sources[1].Href)
}

func TestToSourcesEmptyInput(t *testing.T) {
	assert.NotNil(t, ToSources(nil))
	assert.Empty(t, ToSources(nil))
}

func FuzzToSources(f *testing.F) {
	f.Add("title", "https://example.com", "snippet")
	f.Add("", "", "")
	f.Add("a\nb", "u", "s\n\ns")

	f.Fuzz(func(t *testing.T, title, url, snippet string) {
		sources := ToSources([]domain.SearchResult{{Title: title, URL: url, Snippet: snippet}})
		if title == "" || url == "" || snippet == "" {
			if len(sources) != 0 {
				t.Fatalf("empty-field record not dropped: %+v", sources)
			}
			return
		}
		if len(sources) != 1 {
			t.Fatalf("expected 1 source, got %d", len(sources))
		}
		if sources[0].Href != url {
			t.Errorf("Href = %q, want %q", sources[0].Href, url)
		}
		if sources[0].Body != title+"\n\n"+snippet {
			t.Errorf("Body = %q", sources[0].Body)
		}
	})
}
