package cartmock

import (
	"context"
	"slices"
	"sync"

	"github.com/shopfront/storefront-manager/internal/cart"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type RepositoryOption func(*Repository)

// Repository is an in-memory cart.Repository with optional error injection,
// for tests.
type Repository struct {
	mu    sync.Mutex
	carts map[string][]cart.LineItem

	loadErr, storeErr, deleteErr, listErr error
}

func WithItems(cartID string, items []cart.LineItem) RepositoryOption {
	return func(r *Repository) { r.carts[cartID] = items }
}

func WithLoadError(err error) RepositoryOption {
	return func(r *Repository) { r.loadErr = err }
}

func WithStoreError(err error) RepositoryOption {
	return func(r *Repository) { r.storeErr = err }
}

func WithDeleteError(err error) RepositoryOption {
	return func(r *Repository) { r.deleteErr = err }
}

func WithListError(err error) RepositoryOption {
	return func(r *Repository) { r.listErr = err }
}

var _ = cart.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		carts: make(map[string][]cart.LineItem),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) Load(ctx context.Context, cartID string) ([]cart.LineItem, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, ok := r.carts[cartID]
	if !ok {
		return nil, serviceerr.ErrNotFound
	}

	return slices.Clone(items), nil
}

func (r *Repository) Store(ctx context.Context, cartID string, items []cart.LineItem) error {
	if r.storeErr != nil {
		return r.storeErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cartID] = slices.Clone(items)

	return nil
}

func (r *Repository) Delete(ctx context.Context, cartID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, cartID)

	return nil
}

func (r *Repository) ListIDs(ctx context.Context) ([]string, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.carts))
	for cartID := range r.carts {
		ids = append(ids, cartID)
	}
	slices.Sort(ids)

	return ids, nil
}

// Contains reports whether a record is persisted for the cart.
func (r *Repository) Contains(cartID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.carts[cartID]

	return ok
}
