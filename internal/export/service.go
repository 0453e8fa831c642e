package export

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/models"
)

// Format identifies a supported export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Service renders a job's product catalog into downloadable documents.
// Enhanced attributes are preferred over raw ones wherever a format has a
// single slot for a field; products still pending keep their raw values.
type Service struct {
	logger arbor.ILogger
}

// NewService creates an export service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// ParseFormat validates a format string from a request
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(value)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON, Format(""):
		return FormatJSON, nil
	case FormatXML:
		return FormatXML, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q (expected csv, json, xml, xlsx, or pdf)", value)
}

// ContentType returns the MIME type for a format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXML:
		return "application/xml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Extension returns the file extension for a format, without the dot
func (f Format) Extension() string {
	return string(f)
}

// Export renders the catalog in the requested format
func (s *Service) Export(format Format, job *models.ScrapeJob, products []*models.Product) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = s.exportCSV(products)
	case FormatJSON:
		data, err = s.exportJSON(job, products)
	case FormatXML:
		data, err = s.exportXML(job, products)
	case FormatXLSX:
		data, err = s.exportXLSX(products)
	case FormatPDF:
		data, err = s.exportPDF(job, products)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	if err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	s.logger.Debug().
		Str("job_id", job.ID).
		Str("format", string(format)).
		Int("products", len(products)).
		Int("bytes", len(data)).
		Msg("Export rendered")

	return data, nil
}

// effectiveCategory and friends pick the enhanced value when present

func effectiveCategory(p *models.Product) string {
	if p.Enhancement.NormalizedCategory != "" {
		return p.Enhancement.NormalizedCategory
	}
	return p.Category
}

func effectiveBrand(p *models.Product) string {
	if p.Enhancement.NormalizedBrand != "" {
		return p.Enhancement.NormalizedBrand
	}
	return p.Brand
}

func effectiveDescription(p *models.Product) string {
	if p.Enhancement.Summary != "" {
		return p.Enhancement.Summary
	}
	return p.Description
}

func wooType(p *models.Product) string {
	if p.Enhancement.WooType != "" {
		return string(p.Enhancement.WooType)
	}
	return string(models.WooTypeSimple)
}
