package cart

import "context"

type Repository interface {
	// Load returns the persisted line items for the cart, or
	// serviceerr.ErrNotFound when none are stored.
	Load(ctx context.Context, cartID string) ([]LineItem, error)
	Store(ctx context.Context, cartID string, items []LineItem) error
	Delete(ctx context.Context, cartID string) error
	// ListIDs enumerates the ids of all persisted carts.
	ListIDs(ctx context.Context) ([]string, error)
}
