package order

import "context"

type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	// Get returns serviceerr.ErrNotFound for an unknown order id.
	Get(ctx context.Context, id int64) (Order, error)
	ListByUser(ctx context.Context, userID int64, page, size int) (Page, error)
	// Update replaces the order's items, total and status in one shot.
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id int64) error
}
