package badger

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ProductStorage implements the ProductStorage interface for Badger
type ProductStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewProductStorage creates a new ProductStorage instance
func NewProductStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ProductStorage {
	return &ProductStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ProductStorage) SaveProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product ID is required")
	}
	if product.JobID == "" {
		return fmt.Errorf("product job ID is required")
	}

	if err := s.db.Store().Upsert(product.ID, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (s *ProductStorage) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Store().Get(productID, &product); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("product not found: %s", productID)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (s *ProductStorage) ListProducts(ctx context.Context, opts *interfaces.ProductListOptions) ([]*models.Product, error) {
	query := badgerhold.Where("ID").Ne("")
	if opts != nil && opts.JobID != "" {
		query = badgerhold.Where("JobID").Eq(opts.JobID)
	}
	query = query.SortBy("ScrapedAt")

	var products []models.Product
	if err := s.db.Store().Find(&products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	// Text filters applied in memory - BadgerHold has no substring criteria
	result := make([]*models.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if opts != nil {
			if opts.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(opts.Search)) {
				continue
			}
			if opts.Category != "" && p.Enhancement.NormalizedCategory != opts.Category {
				continue
			}
			if opts.Brand != "" && p.Enhancement.NormalizedBrand != opts.Brand {
				continue
			}
		}
		result = append(result, p)
	}

	if opts != nil {
		if opts.Offset > 0 {
			if opts.Offset >= len(result) {
				return []*models.Product{}, nil
			}
			result = result[opts.Offset:]
		}
		if opts.Limit > 0 && opts.Limit < len(result) {
			result = result[:opts.Limit]
		}
	}

	return result, nil
}

func (s *ProductStorage) CountProducts(ctx context.Context, jobID string) (int, error) {
	count, err := s.db.Store().Count(&models.Product{}, badgerhold.Where("JobID").Eq(jobID))
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(count), nil
}

func (s *ProductStorage) DeleteProductsForJob(ctx context.Context, jobID string) (int, error) {
	count, err := s.db.Store().Count(&models.Product{}, badgerhold.Where("JobID").Eq(jobID))
	if err != nil {
		return 0, fmt.Errorf("failed to count products for job: %w", err)
	}

	if err := s.db.Store().DeleteMatching(&models.Product{}, badgerhold.Where("JobID").Eq(jobID)); err != nil {
		return 0, fmt.Errorf("failed to delete products for job: %w", err)
	}
	return int(count), nil
}
