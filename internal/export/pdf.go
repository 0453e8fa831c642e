package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/merx/internal/models"
)

// exportPDF renders a printable catalog summary: a header with job
// metadata followed by one block per product.
func (s *Service) exportPDF(job *models.ScrapeJob, products []*models.Product) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Product Catalog", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, fmt.Sprintf("Source: %s", job.URL), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%d products, %d enhanced, %d pages",
		len(products), countEnhanced(products), job.Progress.TotalPages), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	for _, p := range products {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, p.Title, "", "L", false)

		pdf.SetFont("Arial", "", 9)
		var meta []string
		if p.Price != "" {
			price := p.Price
			if p.Currency != "" {
				price = p.Currency + " " + price
			}
			meta = append(meta, price)
		}
		if brand := effectiveBrand(p); brand != "" {
			meta = append(meta, brand)
		}
		if category := effectiveCategory(p); category != "" {
			meta = append(meta, category)
		}
		if p.SKU != "" {
			meta = append(meta, "SKU "+p.SKU)
		}
		if len(meta) > 0 {
			pdf.SetTextColor(80, 80, 80)
			pdf.MultiCell(0, 5, strings.Join(meta, "  |  "), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}

		if desc := effectiveDescription(p); desc != "" {
			pdf.MultiCell(0, 5, desc, "", "L", false)
		}
		if len(p.Enhancement.SEOTags) > 0 {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, "Tags: "+strings.Join(p.Enhancement.SEOTags, ", "), "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
