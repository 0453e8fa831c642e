package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/models"
)

func sampleJob() *models.ScrapeJob {
	return &models.ScrapeJob{
		ID:     "job_export",
		URL:    "https://shop.example.com",
		Status: models.JobStatusCompleted,
		Progress: models.JobProgress{
			TotalProductsFound: 2,
			ProductsProcessed:  2,
			ProductsEnhanced:   1,
			CurrentPage:        1,
			TotalPages:         1,
		},
	}
}

func sampleProducts() []*models.Product {
	return []*models.Product{
		{
			ID:            "prod_1",
			JobID:         "job_export",
			Title:         "Oak Chair",
			Description:   "Solid oak dining chair",
			Price:         "99.00",
			OriginalPrice: "129.00",
			Currency:      "USD",
			Brand:         "oakline",
			Category:      "chairs",
			SKU:           "OC-1",
			Rating:        4.5,
			ReviewCount:   12,
			MainImageURL:  "https://cdn.example.com/chair.jpg",
			ImageURLs:     []string{"https://cdn.example.com/chair.jpg", "https://cdn.example.com/chair2.jpg"},
			Enhancement: models.Enhancement{
				State:              models.EnhancementEnriched,
				Summary:            "A sturdy oak chair.",
				NormalizedBrand:    "Oakline",
				NormalizedCategory: "Furniture",
				SEOTags:            []string{"oak", "chair"},
				WooType:            models.WooTypeSimple,
			},
			PageIndex: 1,
			SourceURL: "https://shop.example.com",
			ScrapedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           "prod_2",
			JobID:        "job_export",
			Title:        "Pine Table",
			Price:        "249.00",
			Availability: "out_of_stock",
			Enhancement:  models.Enhancement{State: models.EnhancementPending},
			PageIndex:    1,
			SourceURL:    "https://shop.example.com",
			ScrapedAt:    time.Date(2026, 8, 1, 12, 1, 0, 0, time.UTC),
		},
	}
}

func newTestService() *Service {
	return NewService(arbor.NewLogger())
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"csv", "JSON", "xml", "xlsx", "pdf"} {
		_, err := ParseFormat(valid)
		assert.NoError(t, err, valid)
	}

	// Empty defaults to JSON
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	data, err := newTestService().Export(FormatCSV, sampleJob(), sampleProducts())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two products")

	header := records[0]
	assert.Equal(t, "id", header[0])
	assert.Contains(t, header, "ai_tags")

	row := records[1]
	assert.Equal(t, "prod_1", row[0])
	assert.Equal(t, "Oak Chair", row[1])
	// List fields are flattened
	assert.Equal(t, "https://cdn.example.com/chair.jpg, https://cdn.example.com/chair2.jpg", row[13])
	assert.Equal(t, "oak, chair", row[18])
}

func TestExportJSON_WooCommerceFormat(t *testing.T) {
	data, err := newTestService().Export(FormatJSON, sampleJob(), sampleProducts())
	require.NoError(t, err)

	var doc wooExport
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "woocommerce", doc.Metadata.Format)
	assert.Equal(t, "https://shop.example.com", doc.Metadata.SourceURL)
	assert.Equal(t, 2, doc.Metadata.TotalProducts)
	assert.Equal(t, 1, doc.Metadata.EnhancedProducts)
	require.Len(t, doc.Products, 2)

	chair := doc.Products[0]
	assert.Equal(t, "Oak Chair", chair.Name)
	assert.Equal(t, "129.00", chair.RegularPrice, "original price becomes regular price")
	assert.Equal(t, "99.00", chair.SalePrice)
	assert.Equal(t, "Oakline", chair.Brand, "enhanced brand preferred")
	require.Len(t, chair.Categories, 1)
	assert.Equal(t, "Furniture", chair.Categories[0].Name)
	assert.Len(t, chair.Tags, 2)
	assert.Len(t, chair.Images, 2, "main image not duplicated")
	assert.True(t, chair.InStock)

	table := doc.Products[1]
	assert.Equal(t, "249.00", table.RegularPrice)
	assert.Empty(t, table.SalePrice)
	assert.Equal(t, "simple", table.Type, "pending products default to simple")
	assert.False(t, table.InStock)
}

func TestExportXML(t *testing.T) {
	data, err := newTestService().Export(FormatXML, sampleJob(), sampleProducts())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), xml.Header))

	var catalog xmlCatalog
	require.NoError(t, xml.Unmarshal(data, &catalog))
	require.Len(t, catalog.Products, 2)
	assert.Equal(t, "job_export", catalog.JobID)
	assert.True(t, catalog.Products[0].Enhanced)
	assert.Equal(t, "A sturdy oak chair.", catalog.Products[0].Description, "summary preferred over raw description")
	assert.False(t, catalog.Products[1].Enhanced)
}

func TestExportXLSX(t *testing.T) {
	data, err := newTestService().Export(FormatXLSX, sampleJob(), sampleProducts())
	require.NoError(t, err)
	// XLSX files are ZIP containers
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestExportPDF(t *testing.T) {
	data, err := newTestService().Export(FormatPDF, sampleJob(), sampleProducts())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExport_EmptyCatalog(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatJSON, FormatXML, FormatXLSX, FormatPDF} {
		data, err := newTestService().Export(format, sampleJob(), nil)
		require.NoError(t, err, string(format))
		assert.NotEmpty(t, data, string(format))
	}
}

func TestFormatContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}
