package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
)

// memJobStore is an in-memory JobStorage for run loop tests
type memJobStore struct {
	mu   sync.RWMutex
	jobs map[string]models.ScrapeJob
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: make(map[string]models.ScrapeJob)}
}

func (m *memJobStore) SaveJob(ctx context.Context, job *models.ScrapeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memJobStore) GetJob(ctx context.Context, jobID string) (*models.ScrapeJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	copied := job
	return &copied, nil
}

func (m *memJobStore) ListJobs(ctx context.Context, opts *interfaces.JobListOptions) ([]*models.ScrapeJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*models.ScrapeJob
	for _, job := range m.jobs {
		if opts != nil && opts.Status != "" && string(job.Status) != opts.Status {
			continue
		}
		copied := job
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *memJobStore) CountJobs(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs), nil
}

func (m *memJobStore) GetJobsByStatus(ctx context.Context, status models.JobStatus) ([]*models.ScrapeJob, error) {
	return m.ListJobs(ctx, &interfaces.JobListOptions{Status: string(status)})
}

func (m *memJobStore) DeleteJob(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
	return nil
}

// memProductStore is an in-memory ProductStorage for run loop tests
type memProductStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: make(map[string]models.Product)}
}

func (m *memProductStore) SaveProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = *product
	return nil
}

func (m *memProductStore) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[productID]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", productID)
	}
	copied := product
	return &copied, nil
}

func (m *memProductStore) ListProducts(ctx context.Context, opts *interfaces.ProductListOptions) ([]*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*models.Product
	for _, product := range m.products {
		if opts != nil && opts.JobID != "" && product.JobID != opts.JobID {
			continue
		}
		copied := product
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (m *memProductStore) CountProducts(ctx context.Context, jobID string) (int, error) {
	products, _ := m.ListProducts(ctx, &interfaces.ProductListOptions{JobID: jobID})
	return len(products), nil
}

func (m *memProductStore) DeleteProductsForJob(ctx context.Context, jobID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for id, product := range m.products {
		if product.JobID == jobID {
			delete(m.products, id)
			count++
		}
	}
	return count, nil
}

// scriptedSource serves predefined page extractions and records which
// pages were requested
type scriptedSource struct {
	mu      sync.Mutex
	pages   map[int]*interfaces.PageExtraction
	errOn   map[int]error
	fetched []int
}

func (s *scriptedSource) FetchPage(ctx context.Context, baseURL string, page int) (*interfaces.PageExtraction, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, page)
	s.mu.Unlock()

	if err, ok := s.errOn[page]; ok {
		return nil, err
	}
	if extraction, ok := s.pages[page]; ok {
		return extraction, nil
	}
	return &interfaces.PageExtraction{}, nil
}

func (s *scriptedSource) fetchedPages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.fetched...)
}

// hookEnhancer succeeds for every product except those in failTitles,
// invoking onEnhance first so tests can inject control commands at a
// deterministic point in the run
type hookEnhancer struct {
	failTitles map[string]bool
	onEnhance  func(product *models.Product)
}

func (h *hookEnhancer) Enhance(ctx context.Context, product *models.Product) (*models.Enhancement, error) {
	if h.onEnhance != nil {
		h.onEnhance(product)
	}
	if h.failTitles[product.Title] {
		return nil, fmt.Errorf("scripted enhancement failure for %q", product.Title)
	}
	return &models.Enhancement{
		State:              models.EnhancementEnriched,
		Summary:            "Summary of " + product.Title,
		NormalizedBrand:    "Brand",
		NormalizedCategory: "Category",
		SEOTags:            []string{"tag1", "tag2"},
		WooType:            models.WooTypeSimple,
	}, nil
}

// listingPage builds a page extraction with n titled products
func listingPage(prefix string, n int, hasNext bool) *interfaces.PageExtraction {
	extraction := &interfaces.PageExtraction{HasNext: hasNext}
	for i := 1; i <= n; i++ {
		extraction.Products = append(extraction.Products, interfaces.RawProduct{
			Title: fmt.Sprintf("%s-%d", prefix, i),
			Price: "10.00",
		})
	}
	return extraction
}
