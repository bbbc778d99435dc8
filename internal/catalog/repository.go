package catalog

import "context"

type Repository interface {
	List(ctx context.Context, page, size int) (Page, error)
	// Get returns serviceerr.ErrNotFound for an unknown product id.
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
}
