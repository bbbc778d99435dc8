package cart_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-manager/internal/cart"
	cartmock "github.com/shopfront/storefront-manager/internal/cart/mock"
)

const testCartID = "client-1"

func shirt(quantity int32) cart.LineItem {
	return cart.LineItem{
		ProductID: 1,
		Name:      "T-Shirt",
		Price:     100,
		Stock:     20,
		Quantity:  quantity,
	}
}

func mug(quantity int32) cart.LineItem {
	return cart.LineItem{
		ProductID: 2,
		Name:      "Mug",
		Price:     49.5,
		Stock:     8,
		Quantity:  quantity,
	}
}

func TestStore_AddItem(t *testing.T) {
	ctx := t.Context()

	t.Run("appends new products in insertion order", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(2))
		store.AddItem(ctx, mug(1))

		snap := store.Snapshot()
		require.Len(t, snap.Items, 2)
		assert.Equal(t, int64(1), snap.Items[0].ProductID)
		assert.Equal(t, int64(2), snap.Items[1].ProductID)
		assert.InDelta(t, 249.5, snap.TotalPrice, 1e-9)
	})

	t.Run("accumulates quantity for an existing product", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(2))
		store.AddItem(ctx, shirt(3))
		store.AddItem(ctx, shirt(1))

		snap := store.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, int32(6), snap.Items[0].Quantity)
		assert.InDelta(t, 600, snap.TotalPrice, 1e-9)
	})

	t.Run("normalises a non-positive candidate quantity to one", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(0))

		snap := store.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, int32(1), snap.Items[0].Quantity)
	})

	t.Run("persists the full collection", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(2))
		store.AddItem(ctx, mug(1))

		persisted, err := repo.Load(ctx, testCartID)
		require.NoError(t, err)

		if diff := cmp.Diff(store.Snapshot().Items, persisted); diff != "" {
			t.Errorf("persisted cart differs from snapshot (-want +got):\n%s", diff)
		}
	})
}

func TestStore_RemoveItem(t *testing.T) {
	ctx := t.Context()

	t.Run("removes the line completely regardless of quantity", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(5))
		store.AddItem(ctx, mug(1))
		store.RemoveItem(ctx, 1)

		snap := store.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, int64(2), snap.Items[0].ProductID)
		assert.InDelta(t, 49.5, snap.TotalPrice, 1e-9)
	})

	t.Run("removing an absent product is a no-op", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(1))
		store.RemoveItem(ctx, 42)

		assert.Len(t, store.Snapshot().Items, 1)
	})
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := t.Context()

	t.Run("sets the quantity", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(2))
		store.UpdateQuantity(ctx, 1, 7)

		snap := store.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, int32(7), snap.Items[0].Quantity)
		assert.InDelta(t, 700, snap.TotalPrice, 1e-9)
	})

	t.Run("a quantity below one removes the line", func(t *testing.T) {
		for _, quantity := range []int32{0, -1} {
			repo := cartmock.NewInMemRepository()
			store := cart.Open(ctx, repo, testCartID)

			store.AddItem(ctx, shirt(3))
			store.UpdateQuantity(ctx, 1, quantity)

			snap := store.Snapshot()
			assert.Empty(t, snap.Items)
			assert.Zero(t, snap.TotalPrice)
		}
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(2))
		store.UpdateQuantity(ctx, 42, 9)

		snap := store.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, int32(2), snap.Items[0].Quantity)
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := t.Context()

	t.Run("empties the cart and deletes the persisted record", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(2))
		store.Clear(ctx)

		assert.True(t, store.Empty())
		assert.Zero(t, store.TotalPrice())
		assert.False(t, repo.Contains(testCartID))
	})

	t.Run("is idempotent", func(t *testing.T) {
		repo := cartmock.NewInMemRepository()
		store := cart.Open(ctx, repo, testCartID)

		store.AddItem(ctx, shirt(2))
		store.Clear(ctx)
		first := store.Snapshot()

		store.Clear(ctx)
		second := store.Snapshot()

		assert.Equal(t, first, second)
		assert.Empty(t, second.Items)
	})
}

// The end-to-end scenario: add twice, then drive the quantity to zero.
func TestStore_AddUpdateScenario(t *testing.T) {
	ctx := t.Context()

	repo := cartmock.NewInMemRepository()
	store := cart.Open(ctx, repo, testCartID)

	store.AddItem(ctx, shirt(2))
	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int32(2), snap.Items[0].Quantity)
	assert.InDelta(t, 200, snap.TotalPrice, 1e-9)

	store.AddItem(ctx, shirt(3))
	snap = store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int32(5), snap.Items[0].Quantity)
	assert.InDelta(t, 500, snap.TotalPrice, 1e-9)

	store.UpdateQuantity(ctx, 1, 0)
	snap = store.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalPrice)
}

func TestStore_TotalStaysConsistent(t *testing.T) {
	ctx := t.Context()

	repo := cartmock.NewInMemRepository()
	store := cart.Open(ctx, repo, testCartID)

	check := func() {
		t.Helper()
		snap := store.Snapshot()
		var want float64
		for _, item := range snap.Items {
			want += item.Price * float64(item.Quantity)
		}
		assert.InDelta(t, want, snap.TotalPrice, 1e-9)
	}

	store.AddItem(ctx, shirt(2))
	check()
	store.AddItem(ctx, mug(4))
	check()
	store.UpdateQuantity(ctx, 2, 1)
	check()
	store.RemoveItem(ctx, 1)
	check()
	store.Clear(ctx)
	check()
}

func TestOpen_Hydration(t *testing.T) {
	ctx := t.Context()

	t.Run("hydrates persisted items and recomputes the total", func(t *testing.T) {
		repo := cartmock.NewInMemRepository(
			cartmock.WithItems(testCartID, []cart.LineItem{shirt(2), mug(1)}),
		)

		store := cart.Open(ctx, repo, testCartID)

		snap := store.Snapshot()
		require.Len(t, snap.Items, 2)
		assert.InDelta(t, 249.5, snap.TotalPrice, 1e-9)
	})

	t.Run("empty when nothing persisted", func(t *testing.T) {
		store := cart.Open(ctx, cartmock.NewInMemRepository(), testCartID)

		assert.True(t, store.Empty())
	})

	t.Run("empty when the record is unreadable", func(t *testing.T) {
		repo := cartmock.NewInMemRepository(
			cartmock.WithLoadError(errors.New("corrupt record")),
		)

		store := cart.Open(ctx, repo, testCartID)

		assert.True(t, store.Empty())
		assert.Zero(t, store.TotalPrice())
	})
}

func TestStore_PersistenceFailuresAreSwallowed(t *testing.T) {
	ctx := t.Context()

	repo := cartmock.NewInMemRepository(
		cartmock.WithStoreError(errors.New("quota exceeded")),
		cartmock.WithDeleteError(errors.New("quota exceeded")),
	)
	store := cart.Open(ctx, repo, testCartID)

	store.AddItem(ctx, shirt(2))
	assert.InDelta(t, 200, store.TotalPrice(), 1e-9)

	store.Clear(ctx)
	assert.True(t, store.Empty())
}
