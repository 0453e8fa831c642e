package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/interfaces"
)

// Service fetches storefront pages and extracts product records using a
// chain of strategies: schema.org JSON-LD first, then listing containers,
// then (on page one only) single-product detail markup. The first strategy
// that yields products wins.
type Service struct {
	fetcher *Fetcher
	config  common.ScraperConfig
	logger  arbor.ILogger
}

// NewService creates a scraper service implementing PageSource
func NewService(config common.ScraperConfig, logger arbor.ILogger) interfaces.PageSource {
	return &Service{
		fetcher: NewFetcher(config, logger),
		config:  config,
		logger:  logger,
	}
}

// FetchPage retrieves and extracts one storefront page
func (s *Service) FetchPage(ctx context.Context, baseURL string, page int) (*interfaces.PageExtraction, error) {
	pageURL := buildPageURL(baseURL, page)

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %d: %w", page, err)
	}

	return s.extract(doc, pageURL, page), nil
}

func (s *Service) extract(doc *goquery.Document, pageURL string, page int) *interfaces.PageExtraction {
	strategy := "jsonld"
	products := extractJSONLD(doc, pageURL)

	if len(products) == 0 {
		strategy = "containers"
		products = extractContainers(doc, pageURL, s.config.MaxProductsPerPage)
	}

	if len(products) == 0 && page == 1 {
		strategy = "detail"
		products = extractDetailPage(doc, pageURL, s.config.MaxImages)
	}

	if s.config.MaxProductsPerPage > 0 && len(products) > s.config.MaxProductsPerPage {
		products = products[:s.config.MaxProductsPerPage]
	}
	for i := range products {
		if s.config.MaxImages > 0 && len(products[i].ImageURLs) > s.config.MaxImages {
			products[i].ImageURLs = products[i].ImageURLs[:s.config.MaxImages]
		}
	}

	if len(products) == 0 {
		strategy = "none"
	}

	s.logger.Debug().
		Str("url", pageURL).
		Int("page", page).
		Int("products", len(products)).
		Str("strategy", strategy).
		Msg("Page extraction complete")

	return &interfaces.PageExtraction{
		Products: products,
		HasNext:  hasNextPage(doc, page),
	}
}
