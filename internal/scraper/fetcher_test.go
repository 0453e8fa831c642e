package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
)

func testFetcher(config common.ScraperConfig) *Fetcher {
	if config.UserAgent == "" {
		config.UserAgent = "merx-test/1.0"
	}
	if config.RequestTimeout == "" {
		config.RequestTimeout = "5s"
	}
	return NewFetcher(config, arbor.NewLogger())
}

func TestFetcher_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	f := testFetcher(common.ScraperConfig{UserAgent: "merx/1.0"})
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", body)
	assert.Equal(t, "merx/1.0", gotUA)
}

func TestFetcher_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := testFetcher(common.ScraperConfig{})
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetcher_TruncatesOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 100; i++ {
			w.Write([]byte("0123456789"))
		}
	}))
	defer server.Close()

	f := testFetcher(common.ScraperConfig{MaxBodySize: 64})
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, body, 64)
}

func TestFetcher_CancelledContext(t *testing.T) {
	f := testFetcher(common.ScraperConfig{RequestDelay: "1m"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Limiter already spent its burst token; the wait must observe ctx
	_, _ = f.Fetch(context.Background(), "http://127.0.0.1:0/unreachable")
	_, err := f.Fetch(ctx, "http://192.0.2.1/never")
	require.Error(t, err)
}
