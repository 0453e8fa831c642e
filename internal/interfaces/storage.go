package interfaces

import (
	"context"

	"github.com/ternarybob/merx/internal/models"
)

// JobListOptions contains filtering and pagination options for job queries
type JobListOptions struct {
	Status   string
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	JobID    string
	Search   string // substring match on title
	Category string // matches AI-normalized category
	Brand    string // matches AI-normalized brand
	Limit    int
	Offset   int
}

// JobStorage defines operations for scrape job persistence.
// Every write is a whole-record upsert, so a concurrent poller never
// observes a torn update.
type JobStorage interface {
	SaveJob(ctx context.Context, job *models.ScrapeJob) error
	GetJob(ctx context.Context, jobID string) (*models.ScrapeJob, error)
	ListJobs(ctx context.Context, opts *JobListOptions) ([]*models.ScrapeJob, error)
	CountJobs(ctx context.Context) (int, error)
	GetJobsByStatus(ctx context.Context, status models.JobStatus) ([]*models.ScrapeJob, error)
	DeleteJob(ctx context.Context, jobID string) error
}

// ProductStorage defines operations for product persistence
type ProductStorage interface {
	SaveProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListProducts(ctx context.Context, opts *ProductListOptions) ([]*models.Product, error)
	CountProducts(ctx context.Context, jobID string) (int, error)
	DeleteProductsForJob(ctx context.Context, jobID string) (int, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	JobStorage() JobStorage
	ProductStorage() ProductStorage
	Close() error
}
