//go:build integration

package usersql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-manager/internal/dbtest/postgrestest"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
	"github.com/shopfront/storefront-manager/internal/user"
	usersql "github.com/shopfront/storefront-manager/internal/user/sql"
)

func TestRepository(t *testing.T) {
	ctx := t.Context()

	db, _, terminate := postgrestest.Start(ctx)
	t.Cleanup(func() {
		db.Close()
		terminate(ctx)
	})

	repo := usersql.NewRepository(db)

	t.Run("get the seeded account", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got.Email)
		assert.Equal(t, user.RoleUser, got.Role)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "nobody")

		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, user.Account{Username: "alice", PasswordHash: "x", Role: user.RoleUser})

		assert.ErrorIs(t, err, serviceerr.ErrConflict)
	})

	t.Run("profile upsert round trip", func(t *testing.T) {
		account, err := repo.Create(ctx, user.Account{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: user.RoleUser})
		require.NoError(t, err)

		_, err = repo.GetProfile(ctx, account.ID)
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)

		profile := user.Profile{UserID: account.ID, Address: "1 Main St", Tel: "555-0100", FirstName: "Bob", LastName: "Doe"}
		require.NoError(t, repo.UpsertProfile(ctx, profile))

		profile.Address = "2 Main St"
		require.NoError(t, repo.UpsertProfile(ctx, profile))

		got, err := repo.GetProfile(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, profile, got)
	})
}
