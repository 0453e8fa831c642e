package export

import (
	"fmt"
	"strings"

	"github.com/ternarybob/merx/internal/models"
	"github.com/xuri/excelize/v2"
)

// exportXLSX renders the catalog as a spreadsheet with one row per product
func (s *Service) exportXLSX(products []*models.Product) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Products"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	headers := []string{
		"Title", "Price", "Original Price", "Currency", "Availability",
		"Brand", "Category", "SKU", "Rating", "Reviews",
		"Summary", "Tags", "Type", "Enhanced", "Page", "Image URL",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range products {
		write := func(col int, v interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, p.Title)
		write(2, p.Price)
		write(3, p.OriginalPrice)
		write(4, p.Currency)
		write(5, p.Availability)
		write(6, effectiveBrand(p))
		write(7, effectiveCategory(p))
		write(8, p.SKU)
		if p.Rating > 0 {
			write(9, p.Rating)
		}
		if p.ReviewCount > 0 {
			write(10, p.ReviewCount)
		}
		write(11, p.Enhancement.Summary)
		write(12, strings.Join(p.Enhancement.SEOTags, ", "))
		write(13, wooType(p))
		write(14, p.IsEnriched())
		write(15, p.PageIndex)
		write(16, p.MainImageURL)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "E", 12)
	_ = f.SetColWidth(sheet, "F", "G", 18)
	_ = f.SetColWidth(sheet, "K", "K", 48)
	_ = f.SetColWidth(sheet, "L", "L", 32)
	_ = f.SetColWidth(sheet, "P", "P", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
