package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	productCacheTTL   = time.Minute
	cacheSweepageTime = 5 * time.Minute
)

// Service serves catalog reads through a short-lived cache and passes admin
// writes straight to the repository, invalidating as it goes. Product pages
// are not cached; listings change with every admin write and are cheap.
type Service struct {
	repository Repository
	products   *gocache.Cache
}

func NewService(repo Repository) *Service {
	return &Service{
		repository: repo,
		products:   gocache.New(productCacheTTL, cacheSweepageTime),
	}
}

func (s *Service) List(ctx context.Context, page, size int) (Page, error) {
	listing, err := s.repository.List(ctx, page, size)
	if err != nil {
		return Page{}, fmt.Errorf("listing products: %w", err)
	}

	return listing, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	key := strconv.FormatInt(id, 10)
	if cached, ok := s.products.Get(key); ok {
		return cached.(Product), nil
	}

	product, err := s.repository.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("getting product: %w", err)
	}

	s.products.SetDefault(key, product)

	return product, nil
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	created, err := s.repository.Create(ctx, product)
	if err != nil {
		return Product{}, fmt.Errorf("creating product: %w", err)
	}

	return created, nil
}

func (s *Service) Update(ctx context.Context, product Product) error {
	if err := s.repository.Update(ctx, product); err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	s.products.Delete(strconv.FormatInt(product.ID, 10))

	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	s.products.Delete(strconv.FormatInt(id, 10))

	return nil
}
