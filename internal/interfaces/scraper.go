package interfaces

import (
	"context"
)

// RawProduct is product data as extracted from markup, before enhancement
type RawProduct struct {
	Title         string
	Description   string
	Price         string
	OriginalPrice string
	Currency      string
	Availability  string
	Brand         string
	Category      string
	SKU           string
	Rating        float64
	ReviewCount   int
	MainImageURL  string
	ImageURLs     []string
}

// PageExtraction is the result of fetching and extracting one storefront page.
// An empty Products slice signals the end of pagination; HasNext reflects
// next-page hints found in the markup.
type PageExtraction struct {
	Products []RawProduct
	HasNext  bool
}

// PageSource fetches one storefront page and extracts its product records.
// A returned error means the page could not be fetched at all; the caller
// decides whether that is fatal (first page) or end-of-pagination (later pages).
type PageSource interface {
	FetchPage(ctx context.Context, baseURL string, page int) (*PageExtraction, error)
}
