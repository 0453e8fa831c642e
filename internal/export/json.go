package export

import (
	"encoding/json"
	"time"

	"github.com/ternarybob/merx/internal/models"
)

// wooExport is the WooCommerce-compatible import document
type wooExport struct {
	Metadata wooMetadata  `json:"export_metadata"`
	Products []wooProduct `json:"products"`
}

type wooMetadata struct {
	ExportDate       string `json:"export_date"`
	SourceURL        string `json:"source_url"`
	JobID            string `json:"job_id"`
	TotalProducts    int    `json:"total_products"`
	EnhancedProducts int    `json:"enhanced_products"`
	Format           string `json:"format"`
}

type wooProduct struct {
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	SKU              string     `json:"sku,omitempty"`
	RegularPrice     string     `json:"regular_price,omitempty"`
	SalePrice        string     `json:"sale_price,omitempty"`
	Description      string     `json:"description,omitempty"`
	ShortDescription string     `json:"short_description,omitempty"`
	InStock          bool       `json:"in_stock"`
	Brand            string     `json:"brand,omitempty"`
	Categories       []wooTerm  `json:"categories,omitempty"`
	Tags             []wooTerm  `json:"tags,omitempty"`
	Images           []wooImage `json:"images,omitempty"`
	AverageRating    string     `json:"average_rating,omitempty"`
	RatingCount      int        `json:"rating_count,omitempty"`
}

type wooTerm struct {
	Name string `json:"name"`
}

type wooImage struct {
	Src string `json:"src"`
}

// exportJSON renders the catalog as a WooCommerce import document. A sale
// price is only emitted when the listing carried both a current and an
// original price.
func (s *Service) exportJSON(job *models.ScrapeJob, products []*models.Product) ([]byte, error) {
	doc := wooExport{
		Metadata: wooMetadata{
			ExportDate:       time.Now().Format(time.RFC3339),
			SourceURL:        job.URL,
			JobID:            job.ID,
			TotalProducts:    len(products),
			EnhancedProducts: countEnhanced(products),
			Format:           "woocommerce",
		},
		Products: make([]wooProduct, 0, len(products)),
	}

	for _, p := range products {
		wp := wooProduct{
			Name:             p.Title,
			Type:             wooType(p),
			SKU:              p.SKU,
			Description:      p.Description,
			ShortDescription: effectiveDescription(p),
			InStock:          p.Availability != "out_of_stock",
			Brand:            effectiveBrand(p),
			RatingCount:      p.ReviewCount,
		}

		if p.OriginalPrice != "" {
			wp.RegularPrice = p.OriginalPrice
			wp.SalePrice = p.Price
		} else {
			wp.RegularPrice = p.Price
		}

		if category := effectiveCategory(p); category != "" {
			wp.Categories = []wooTerm{{Name: category}}
		}
		for _, tag := range p.Enhancement.SEOTags {
			wp.Tags = append(wp.Tags, wooTerm{Name: tag})
		}
		if p.MainImageURL != "" {
			wp.Images = append(wp.Images, wooImage{Src: p.MainImageURL})
		}
		for _, img := range p.ImageURLs {
			if img != p.MainImageURL {
				wp.Images = append(wp.Images, wooImage{Src: img})
			}
		}
		if p.Rating > 0 {
			wp.AverageRating = formatFloat(p.Rating)
		}

		doc.Products = append(doc.Products, wp)
	}

	return json.MarshalIndent(doc, "", "  ")
}

func countEnhanced(products []*models.Product) int {
	count := 0
	for _, p := range products {
		if p.IsEnriched() {
			count++
		}
	}
	return count
}
