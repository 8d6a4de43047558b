package engine

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serveHTML returns a test server that answers every GET with the given page.
func serveHTML(t *testing.T, status int, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// recordHeaders returns a server that captures request headers before
// answering with the page.
func recordHeaders(t *testing.T, page string, captured *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = r.Header.Clone()
		io.WriteString(w, page)
	}))
	t.Cleanup(srv.Close)
	return srv
}
