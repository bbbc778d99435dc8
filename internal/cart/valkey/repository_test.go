//go:build integration

package cartvalkey_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-manager/internal/cart"
	cartvalkey "github.com/shopfront/storefront-manager/internal/cart/valkey"
	"github.com/shopfront/storefront-manager/internal/dbtest/valkeytest"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

func TestRepository(t *testing.T) {
	ctx := t.Context()

	client, _, terminate := valkeytest.Start(ctx)
	t.Cleanup(func() {
		client.Close()
		terminate(ctx)
	})

	repo := cartvalkey.NewRepository(client, "storefront", 720*time.Hour)

	items := []cart.LineItem{
		{ProductID: 1, Name: "Shirt", Price: 100, Quantity: 2},
		{ProductID: 2, Name: "Mug", Price: 15, Quantity: 1},
	}

	t.Run("load of an unknown cart", func(t *testing.T) {
		_, err := repo.Load(ctx, "nobody")

		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("store and load keeps the order", func(t *testing.T) {
		require.NoError(t, repo.Store(ctx, "cart-1", items))

		got, err := repo.Load(ctx, "cart-1")
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("list enumerates stored cart ids", func(t *testing.T) {
		require.NoError(t, repo.Store(ctx, "cart-2", items))

		ids, err := repo.ListIDs(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"cart-1", "cart-2"}, ids)

		require.NoError(t, repo.Delete(ctx, "cart-2"))
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "cart-1"))

		_, err := repo.Load(ctx, "cart-1")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})
}
