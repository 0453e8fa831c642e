package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"golang.org/x/time/rate"
)

// Fetcher retrieves storefront page content over HTTP. A shared rate
// limiter keeps the crawl polite: at most one request per configured
// request_delay, regardless of how many jobs are running.
type Fetcher struct {
	client  *http.Client
	config  common.ScraperConfig
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewFetcher creates a page fetcher from scraper configuration. The
// duration settings are strings parsed here; unparseable values fall
// back to defaults with a warning.
func NewFetcher(config common.ScraperConfig, logger arbor.ILogger) *Fetcher {
	timeout := 30 * time.Second
	if config.RequestTimeout != "" {
		if d, err := time.ParseDuration(config.RequestTimeout); err == nil {
			timeout = d
		} else {
			logger.Warn().Str("request_timeout", config.RequestTimeout).Msg("Invalid request_timeout, using 30s")
		}
	}

	limit := rate.Inf
	if config.RequestDelay != "" {
		if d, err := time.ParseDuration(config.RequestDelay); err == nil && d > 0 {
			limit = rate.Every(d)
		} else if err != nil {
			logger.Warn().Str("request_delay", config.RequestDelay).Msg("Invalid request_delay, rate limiting disabled")
		}
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		config:  config,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Fetch retrieves the page at the given URL and returns its body as a string
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	f.logger.Debug().Str("url", pageURL).Msg("Fetching page")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s returned HTTP %d", pageURL, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.config.MaxBodySize > 0 {
		body = io.LimitReader(resp.Body, f.config.MaxBodySize)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", pageURL, err)
	}

	return string(data), nil
}
