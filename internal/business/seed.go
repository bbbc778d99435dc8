package business

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	catalogsql "github.com/shopfront/storefront-manager/internal/catalog/sql"
	"github.com/shopfront/storefront-manager/internal/catalog/seed"
	"github.com/shopfront/storefront-manager/internal/config"
)

// SeedMain loads the catalog seed file into the products table.
func SeedMain(ctx context.Context, cfg *config.Config) error {
	products, err := seed.Load(cfg.Seed.File)
	if err != nil {
		return fmt.Errorf("loading seed file: %w", err)
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	imported, err := seed.Import(ctx, catalogsql.NewRepository(db), products)
	if err != nil {
		return fmt.Errorf("importing seed products: %w", err)
	}

	slogctx.Info(ctx, "Seeded the catalog", "file", cfg.Seed.File, "imported", imported)

	return nil
}
