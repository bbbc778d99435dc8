package cartvalkey

import (
	"context"
	"errors"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/shopfront/storefront-manager/internal/cart"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
	"github.com/shopfront/storefront-manager/internal/storage/valkeystore"
)

// The full item collection is one JSON array per cart id, rewritten on
// every mutation. Clear deletes the key rather than writing [].
const objectTypeItems = "cartItems"

var (
	ErrGetCart    = errors.New("getting cart from store")
	ErrStoreCart  = errors.New("setting cart into storage")
	ErrDeleteCart = errors.New("deleting cart from storage")
	ErrListCarts  = errors.New("listing carts from storage")
)

type Repository struct {
	store *valkeystore.Store

	// retention bounds how long an untouched cart survives; every write
	// refreshes the deadline.
	retention time.Duration
}

var _ = cart.Repository(&Repository{})

func NewRepository(valkeyClient valkey.Client, prefix string, retention time.Duration) *Repository {
	return &Repository{
		store:     valkeystore.New(valkeyClient, prefix),
		retention: retention,
	}
}

func (r *Repository) Load(ctx context.Context, cartID string) ([]cart.LineItem, error) {
	var items []cart.LineItem
	if err := r.store.Get(ctx, objectTypeItems, cartID, &items); err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return nil, serviceerr.ErrNotFound
		}

		return nil, errors.Join(ErrGetCart, err)
	}

	return items, nil
}

func (r *Repository) Store(ctx context.Context, cartID string, items []cart.LineItem) error {
	if err := r.store.Set(ctx, objectTypeItems, cartID, items, r.retention); err != nil {
		return errors.Join(ErrStoreCart, err)
	}

	return nil
}

func (r *Repository) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := r.store.ListIDs(ctx, objectTypeItems)
	if err != nil {
		return nil, errors.Join(ErrListCarts, err)
	}

	return ids, nil
}

func (r *Repository) Delete(ctx context.Context, cartID string) error {
	if err := r.store.Destroy(ctx, objectTypeItems, cartID); err != nil {
		return errors.Join(ErrDeleteCart, err)
	}

	return nil
}
