package export

import (
	"encoding/xml"
	"time"

	"github.com/ternarybob/merx/internal/models"
)

type xmlCatalog struct {
	XMLName    xml.Name     `xml:"catalog"`
	ExportDate string       `xml:"export_date,attr"`
	SourceURL  string       `xml:"source_url,attr"`
	JobID      string       `xml:"job_id,attr"`
	Products   []xmlProduct `xml:"product"`
}

type xmlProduct struct {
	ID            string   `xml:"id,attr"`
	Title         string   `xml:"title"`
	Description   string   `xml:"description,omitempty"`
	Price         string   `xml:"price,omitempty"`
	OriginalPrice string   `xml:"original_price,omitempty"`
	Currency      string   `xml:"currency,omitempty"`
	Availability  string   `xml:"availability,omitempty"`
	Brand         string   `xml:"brand,omitempty"`
	Category      string   `xml:"category,omitempty"`
	SKU           string   `xml:"sku,omitempty"`
	Rating        float64  `xml:"rating,omitempty"`
	ReviewCount   int      `xml:"review_count,omitempty"`
	Images        []string `xml:"images>image,omitempty"`
	Summary       string   `xml:"ai_summary,omitempty"`
	Tags          []string `xml:"ai_tags>tag,omitempty"`
	WooType       string   `xml:"woocommerce_type,omitempty"`
	Enhanced      bool     `xml:"enhanced,attr"`
}

// exportXML renders the catalog as an XML document with enhanced values
// taking precedence over raw ones
func (s *Service) exportXML(job *models.ScrapeJob, products []*models.Product) ([]byte, error) {
	catalog := xmlCatalog{
		ExportDate: time.Now().Format(time.RFC3339),
		SourceURL:  job.URL,
		JobID:      job.ID,
		Products:   make([]xmlProduct, 0, len(products)),
	}

	for _, p := range products {
		catalog.Products = append(catalog.Products, xmlProduct{
			ID:            p.ID,
			Title:         p.Title,
			Description:   effectiveDescription(p),
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Currency:      p.Currency,
			Availability:  p.Availability,
			Brand:         effectiveBrand(p),
			Category:      effectiveCategory(p),
			SKU:           p.SKU,
			Rating:        p.Rating,
			ReviewCount:   p.ReviewCount,
			Images:        p.ImageURLs,
			Summary:       p.Enhancement.Summary,
			Tags:          p.Enhancement.SEOTags,
			WooType:       wooType(p),
			Enhanced:      p.IsEnriched(),
		})
	}

	data, err := xml.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
