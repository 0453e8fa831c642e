package models

import (
	"time"
)

// EnhancementState marks whether a product has been through AI enrichment.
// Absence of enrichment is a first-class state, not an error: a product
// whose enhancement failed keeps its raw attributes and stays pending.
type EnhancementState string

const (
	EnhancementPending  EnhancementState = "pending"
	EnhancementEnriched EnhancementState = "enriched"
)

// WooProductType classifies a product for WooCommerce import
type WooProductType string

const (
	WooTypeSimple   WooProductType = "simple"
	WooTypeVariable WooProductType = "variable"
	WooTypeGrouped  WooProductType = "grouped"
)

// Enhancement holds the AI-derived attributes of a product. Fields other
// than State are only meaningful when State is EnhancementEnriched.
type Enhancement struct {
	State              EnhancementState `json:"state"`
	Summary            string           `json:"ai_summary,omitempty"`
	NormalizedCategory string           `json:"ai_normalized_category,omitempty"`
	NormalizedBrand    string           `json:"ai_normalized_brand,omitempty"`
	SEOTags            []string         `json:"ai_tags,omitempty"`
	WooType            WooProductType   `json:"ai_woocommerce_type,omitempty"`
}

// Product represents one product record extracted from a storefront page.
// It is owned by exactly one ScrapeJob, persisted immediately with raw
// attributes during extraction, and mutated at most once to attach the
// Enhancement. The orchestrator never deletes products.
type Product struct {
	ID    string `json:"id"`
	JobID string `json:"job_id"`

	// Raw attributes as extracted from markup
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Price         string   `json:"price,omitempty"`
	OriginalPrice string   `json:"original_price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Category      string   `json:"category,omitempty"`
	SKU           string   `json:"sku,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	ReviewCount   int      `json:"review_count,omitempty"`
	MainImageURL  string   `json:"main_image_url,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty"`

	Enhancement Enhancement `json:"enhancement"`

	SourceURL string    `json:"source_url"`
	PageIndex int       `json:"page_index"` // 1-based page the product was extracted from
	ScrapedAt time.Time `json:"scraped_at"`
}

// IsEnriched reports whether AI enrichment succeeded for this product
func (p *Product) IsEnriched() bool {
	return p.Enhancement.State == EnhancementEnriched
}
