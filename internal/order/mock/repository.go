package ordermock

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/shopfront/storefront-manager/internal/order"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type RepositoryOption func(*Repository)

// Repository is an in-memory order.Repository, for tests.
type Repository struct {
	mu     sync.Mutex
	orders map[int64]order.Order
	nextID int64

	createErr, getErr, updateErr, deleteErr error
}

func WithOrder(o order.Order) RepositoryOption {
	return func(r *Repository) {
		r.orders[o.ID] = o
		if o.ID >= r.nextID {
			r.nextID = o.ID + 1
		}
	}
}

func WithCreateError(err error) RepositoryOption {
	return func(r *Repository) { r.createErr = err }
}

func WithGetError(err error) RepositoryOption {
	return func(r *Repository) { r.getErr = err }
}

func WithUpdateError(err error) RepositoryOption {
	return func(r *Repository) { r.updateErr = err }
}

func WithDeleteError(err error) RepositoryOption {
	return func(r *Repository) { r.deleteErr = err }
}

var _ = order.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		orders: make(map[int64]order.Order),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) Create(ctx context.Context, o order.Order) (order.Order, error) {
	if r.createErr != nil {
		return order.Order{}, r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	o.Items = slices.Clone(o.Items)
	r.orders[o.ID] = o

	return o, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (order.Order, error) {
	if r.getErr != nil {
		return order.Order{}, r.getErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, serviceerr.ErrNotFound
	}

	o.Items = slices.Clone(o.Items)

	return o, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64, page, size int) (order.Page, error) {
	if r.getErr != nil {
		return order.Page{}, r.getErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var mine []order.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].ID < mine[j].ID })

	total := int64(len(mine))
	start := page * size
	if start > len(mine) {
		start = len(mine)
	}
	end := start + size
	if end > len(mine) {
		end = len(mine)
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return order.Page{
		Content:       mine[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          totalPages == 0 || page >= totalPages-1,
	}, nil
}

func (r *Repository) Update(ctx context.Context, o order.Order) error {
	if r.updateErr != nil {
		return r.updateErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; !ok {
		return serviceerr.ErrNotFound
	}

	o.Items = slices.Clone(o.Items)
	r.orders[o.ID] = o

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return serviceerr.ErrNotFound
	}

	delete(r.orders, id)

	return nil
}
