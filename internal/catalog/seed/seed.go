// Package seed loads an initial product catalog from a YAML file.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/catalog"
)

type file struct {
	Products []entry `yaml:"products"`
}

type entry struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Stock       int32   `yaml:"stock"`
	ImageURL    string  `yaml:"imageUrl"`
	CategoryID  *int64  `yaml:"categoryId"`
}

// Load parses the seed file into catalog products. Entries without a name
// or with a negative price are rejected, not skipped, so a bad seed file is
// noticed instead of half-imported.
func Load(path string) ([]catalog.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	products := make([]catalog.Product, 0, len(f.Products))
	for i, e := range f.Products {
		if e.Name == "" {
			return nil, fmt.Errorf("seed entry %d: missing name", i)
		}
		if e.Price < 0 {
			return nil, fmt.Errorf("seed entry %d (%s): negative price", i, e.Name)
		}
		if e.Stock < 0 {
			return nil, fmt.Errorf("seed entry %d (%s): negative stock", i, e.Name)
		}

		products = append(products, catalog.Product{
			Name:        e.Name,
			Description: e.Description,
			Price:       e.Price,
			Stock:       e.Stock,
			ImageURL:    e.ImageURL,
			CategoryID:  e.CategoryID,
		})
	}

	return products, nil
}

// Import writes the products into the repository and returns how many were
// created.
func Import(ctx context.Context, repo catalog.Repository, products []catalog.Product) (int, error) {
	created := 0
	for _, p := range products {
		stored, err := repo.Create(ctx, p)
		if err != nil {
			return created, fmt.Errorf("creating product %q: %w", p.Name, err)
		}

		slogctx.Debug(ctx, "Seeded product", "id", stored.ID, "name", stored.Name)
		created++
	}

	return created, nil
}
