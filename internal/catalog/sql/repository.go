package catalogsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/storefront-manager/internal/catalog"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type Repository struct {
	db *pgxpool.Pool
}

var _ = catalog.Repository(&Repository{})

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) List(ctx context.Context, page, size int) (catalog.Page, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return catalog.Page{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM products;`).Scan(&total); err != nil {
		return catalog.Page{}, fmt.Errorf("counting products: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT id, name, description, price, stock, image_url, category_id
FROM products
ORDER BY id
LIMIT $1 OFFSET $2;`,
		size, page*size,
	)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("selecting from products: %w", err)
	}

	content := make([]catalog.Product, 0, size)
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CategoryID); err != nil {
			return catalog.Page{}, fmt.Errorf("scanning rows: %w", err)
		}

		content = append(content, p)
	}
	if err := rows.Err(); err != nil {
		return catalog.Page{}, fmt.Errorf("iterating rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return catalog.Page{}, fmt.Errorf("committing tx: %w", err)
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return catalog.Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
	}, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	if err := r.db.QueryRow(ctx, `SELECT id, name, description, price, stock, image_url, category_id
FROM products
WHERE id = $1;`,
		id,
	).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Product{}, serviceerr.ErrNotFound
		}

		return catalog.Product{}, fmt.Errorf("selecting from products: %w", err)
	}

	return p, nil
}

func (r *Repository) Create(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	if err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, description, price, stock, image_url, category_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;`,
		product.Name, product.Description, product.Price, product.Stock, product.ImageURL, product.CategoryID,
	).Scan(&product.ID); err != nil {
		return catalog.Product{}, fmt.Errorf("inserting into products: %w", err)
	}

	return product, nil
}

func (r *Repository) Update(ctx context.Context, product catalog.Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products
	SET (name, description, price, stock, image_url, category_id) = ($2, $3, $4, $5, $6, $7)
	WHERE id = $1;`,
		product.ID, product.Name, product.Description, product.Price, product.Stock, product.ImageURL, product.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("updating products: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("deleting from products: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	return nil
}
