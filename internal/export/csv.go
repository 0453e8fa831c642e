package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ternarybob/merx/internal/models"
)

var csvHeader = []string{
	"id", "title", "description", "price", "original_price", "currency",
	"availability", "brand", "category", "sku", "rating", "review_count",
	"main_image_url", "image_urls",
	"ai_state", "ai_summary", "ai_normalized_brand", "ai_normalized_category",
	"ai_tags", "ai_woocommerce_type",
	"source_url", "page", "scraped_at",
}

// exportCSV writes one row per product. List fields are flattened to
// comma-joined strings so the file round-trips through spreadsheet tools.
func (s *Service) exportCSV(products []*models.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, p := range products {
		row := []string{
			p.ID,
			p.Title,
			p.Description,
			p.Price,
			p.OriginalPrice,
			p.Currency,
			p.Availability,
			p.Brand,
			p.Category,
			p.SKU,
			formatFloat(p.Rating),
			fmt.Sprintf("%d", p.ReviewCount),
			p.MainImageURL,
			strings.Join(p.ImageURLs, ", "),
			string(p.Enhancement.State),
			p.Enhancement.Summary,
			p.Enhancement.NormalizedBrand,
			p.Enhancement.NormalizedCategory,
			strings.Join(p.Enhancement.SEOTags, ", "),
			string(p.Enhancement.WooType),
			p.SourceURL,
			fmt.Sprintf("%d", p.PageIndex),
			p.ScrapedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
