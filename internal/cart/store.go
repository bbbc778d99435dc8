package cart

import (
	"context"
	"errors"
	"slices"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

// Store holds the products a user intends to purchase until checkout turns
// them into an order. Items keep their insertion order and are unique by
// product id; the derived total is recomputed inside every mutation, never
// left stale.
//
// Mutations update the in-memory items first and then write the full
// collection through to the Repository. Clear deletes the persisted record
// instead of writing an empty collection. Persistence failures are logged
// and swallowed, matching the session store.
type Store struct {
	mu sync.Mutex

	repo   Repository
	cartID string

	items []LineItem
	total float64
}

// Open hydrates the cart for a client from persisted storage. A missing or
// unreadable record yields the empty cart.
func Open(ctx context.Context, repo Repository, cartID string) *Store {
	s := &Store{
		repo:   repo,
		cartID: cartID,
	}

	items, err := repo.Load(ctx, cartID)
	if err != nil {
		if !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Warn(ctx, "Could not hydrate cart, starting empty", "cart_id", cartID, "error", err)
		}

		return s
	}

	s.items = items
	s.total = totalPrice(items)

	return s
}

// AddItem puts a candidate line item into the cart. Repeated adds of the
// same product accumulate quantity on the existing line instead of
// replacing it. Stock is deliberately not checked here; callers guard the
// increment control against it.
func (s *Store) AddItem(ctx context.Context, candidate LineItem) {
	if candidate.Quantity < 1 {
		candidate.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ProductID == candidate.ProductID {
			s.items[i].Quantity += candidate.Quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, candidate)
	}

	s.commit(ctx)
}

// RemoveItem drops the line item for the product. Removing an absent
// product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.DeleteFunc(s.items, func(item LineItem) bool {
		return item.ProductID == productID
	})

	s.commit(ctx)
}

// UpdateQuantity sets the quantity for the product's line item. A quantity
// below one removes the line; a zero-quantity item never stays in the cart.
// Unknown products are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int32) {
	if quantity < 1 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			break
		}
	}

	s.commit(ctx)
}

// Clear empties the cart and deletes the persisted record.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.total = 0

	if err := s.repo.Delete(ctx, s.cartID); err != nil {
		slogctx.Error(ctx, "Could not delete persisted cart", "cart_id", s.cartID, "error", err)
	}
}

// Snapshot returns a copy of the items and the derived total.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Items:      slices.Clone(s.items),
		TotalPrice: s.total,
	}
}

// TotalPrice returns the derived total, the sum of price*quantity.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total
}

// Empty reports whether the cart has no items.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items) == 0
}

// commit recomputes the total and writes the items through to storage.
// Callers must hold the mutex.
func (s *Store) commit(ctx context.Context) {
	s.total = totalPrice(s.items)

	if err := s.repo.Store(ctx, s.cartID, slices.Clone(s.items)); err != nil {
		slogctx.Error(ctx, "Could not persist cart", "cart_id", s.cartID, "error", err)
	}
}
