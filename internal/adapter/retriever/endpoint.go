package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/iddy-ani/gpt-researcher/internal/domain"
)

const (
	endpointEnvVar    = "RETRIEVER_ENDPOINT"
	endpointArgPrefix = "RETRIEVER_ARG_"
	endpointTimeout   = 30 * time.Second
	endpointMaxBody   = 1 << 20
)

// EndpointRetriever queries a user-supplied HTTP endpoint instead of the
// scraping pipeline. The endpoint URL comes from RETRIEVER_ENDPOINT and
// extra query parameters from RETRIEVER_ARG_* variables; the endpoint must
// answer a GET with a JSON array of pipeline-shape records.
type EndpointRetriever struct {
	query    string
	endpoint string
	params   url.Values
	client   *http.Client
	logger   *slog.Logger
}

// NewEndpointRetriever builds the endpoint retriever from the environment.
// Returns an error when RETRIEVER_ENDPOINT is unset.
func NewEndpointRetriever(query string, _ []string, logger *slog.Logger) (*EndpointRetriever, error) {
	endpoint := os.Getenv(endpointEnvVar)
	if endpoint == "" {
		return nil, fmt.Errorf("%s environment variable not set", endpointEnvVar)
	}

	params := url.Values{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, endpointArgPrefix) {
			continue
		}
		params.Set(strings.ToLower(strings.TrimPrefix(key, endpointArgPrefix)), value)
	}

	return &EndpointRetriever{
		query:    query,
		endpoint: endpoint,
		params:   params,
		client:   &http.Client{Timeout: endpointTimeout},
		logger:   logger,
	}, nil
}

// Search GETs the endpoint with the query and configured parameters. Any
// failure yields an empty list, matching the retriever contract.
func (r *EndpointRetriever) Search(ctx context.Context, maxResults int) []domain.Source {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		r.logger.Error("endpoint retriever: bad endpoint", "endpoint", r.endpoint, "error", err)
		return []domain.Source{}
	}

	q := req.URL.Query()
	for key, values := range r.params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	q.Set("query", r.query)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("endpoint retriever: request failed", "error", err)
		return []domain.Source{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("endpoint retriever: unexpected status", "status", resp.StatusCode)
		return []domain.Source{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, endpointMaxBody))
	if err != nil {
		r.logger.Error("endpoint retriever: read response", "error", err)
		return []domain.Source{}
	}

	var sources []domain.Source
	if err := json.Unmarshal(body, &sources); err != nil {
		r.logger.Error("endpoint retriever: decode response", "error", err)
		return []domain.Source{}
	}

	if maxResults > 0 && len(sources) > maxResults {
		sources = sources[:maxResults]
	}
	return sources
}

var _ domain.Retriever = (*EndpointRetriever)(nil)
