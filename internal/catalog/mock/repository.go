package catalogmock

import (
	"context"
	"sort"
	"sync"

	"github.com/shopfront/storefront-manager/internal/catalog"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type RepositoryOption func(*Repository)

// Repository is an in-memory catalog.Repository, for tests.
type Repository struct {
	mu       sync.Mutex
	products map[int64]catalog.Product
	nextID   int64

	listErr, getErr, writeErr error

	// GetCalls counts repository reads, to observe cache hits.
	GetCalls int
}

func WithProduct(p catalog.Product) RepositoryOption {
	return func(r *Repository) {
		r.products[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
}

func WithListError(err error) RepositoryOption {
	return func(r *Repository) { r.listErr = err }
}

func WithGetError(err error) RepositoryOption {
	return func(r *Repository) { r.getErr = err }
}

func WithWriteError(err error) RepositoryOption {
	return func(r *Repository) { r.writeErr = err }
}

var _ = catalog.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		products: make(map[int64]catalog.Product),
		nextID:   1,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) List(ctx context.Context, page, size int) (catalog.Page, error) {
	if r.listErr != nil {
		return catalog.Page{}, r.listErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	start := page * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return catalog.Page{
		Content:       all[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
	}, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (catalog.Product, error) {
	if r.getErr != nil {
		return catalog.Product{}, r.getErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.GetCalls++

	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, serviceerr.ErrNotFound
	}

	return p, nil
}

func (r *Repository) Create(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	if r.writeErr != nil {
		return catalog.Product{}, r.writeErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = product

	return product, nil
}

func (r *Repository) Update(ctx context.Context, product catalog.Product) error {
	if r.writeErr != nil {
		return r.writeErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return serviceerr.ErrNotFound
	}

	r.products[product.ID] = product

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if r.writeErr != nil {
		return r.writeErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return serviceerr.ErrNotFound
	}

	delete(r.products, id)

	return nil
}
